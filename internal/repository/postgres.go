package repository

import (
	"context"

	"lms-dashboard/internal/domain"

	"gorm.io/gorm"
)

// ========== RISK SNAPSHOT REPOSITORY ==========

type riskSnapshotRepo struct {
	db *gorm.DB
}

func NewRiskSnapshotRepository(db *gorm.DB) domain.RiskSnapshotRepository {
	return &riskSnapshotRepo{db}
}

func (r *riskSnapshotRepo) Create(ctx context.Context, snap *domain.RiskSnapshot) error {
	return r.db.WithContext(ctx).Create(snap).Error
}

// GetRecent returns the newest snapshots first. An empty courseID selects the
// platform-wide snapshots only.
func (r *riskSnapshotRepo) GetRecent(ctx context.Context, courseID string, limit int) ([]domain.RiskSnapshot, error) {
	var snaps []domain.RiskSnapshot
	if limit <= 0 {
		limit = 30
	}
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Limit(limit).
		Find(&snaps).Error
	return snaps, err
}
