package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"lms-dashboard/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	exportBucket    = "exports"
	// MaxExportSize caps a single workbook; bigger tables should be filtered first.
	MaxExportSize   = 50 * 1024 * 1024
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type exportRepo struct {
	db     *mongo.Database
	bucket *gridfs.Bucket
}

// NewExportRepository stores generated workbooks in the "exports" GridFS bucket.
func NewExportRepository(db *mongo.Database) (domain.ExportRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(exportBucket))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &exportRepo{db: db, bucket: bucket}, nil
}

func (r *exportRepo) Save(ctx context.Context, meta domain.ExportFile, content io.Reader) (*domain.ExportFile, error) {
	counter := &countingReader{r: io.LimitReader(content, MaxExportSize+1)}

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"kind":         meta.Kind,
		"rows":         meta.Rows,
		"created_by":   meta.CreatedBy,
		"content_type": XLSXContentType,
	})

	objectID, err := r.bucket.UploadFromStream(meta.Filename, counter, uploadOpts)
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	if counter.n > MaxExportSize {
		_ = r.bucket.Delete(objectID)
		return nil, fmt.Errorf("export exceeds %dMB", MaxExportSize/(1024*1024))
	}

	meta.ID = objectID.Hex()
	meta.Size = counter.n
	meta.UploadDate = time.Now()
	return &meta, nil
}

func (r *exportRepo) Open(ctx context.Context, id string) (io.ReadCloser, *domain.ExportFile, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil, domain.ErrNotFound
	}

	info, err := r.fileInfo(ctx, objectID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := r.bucket.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("open export: %w", err)
	}
	return stream, info, nil
}

func (r *exportRepo) fileInfo(ctx context.Context, id primitive.ObjectID) (*domain.ExportFile, error) {
	var result struct {
		ID         primitive.ObjectID `bson:"_id"`
		Filename   string             `bson:"filename"`
		Length     int64              `bson:"length"`
		UploadDate time.Time          `bson:"uploadDate"`
		Metadata   struct {
			Kind      string `bson:"kind"`
			Rows      int    `bson:"rows"`
			CreatedBy string `bson:"created_by"`
		} `bson:"metadata"`
	}

	err := r.db.Collection(exportBucket+".files").FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &domain.ExportFile{
		ID:         result.ID.Hex(),
		Filename:   result.Filename,
		Size:       result.Length,
		Kind:       result.Metadata.Kind,
		Rows:       result.Metadata.Rows,
		CreatedBy:  result.Metadata.CreatedBy,
		UploadDate: result.UploadDate,
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
