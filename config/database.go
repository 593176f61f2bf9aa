package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	PG    *gorm.DB
	Mongo *mongo.Database
	Redis *redis.Client
}

// ConnectDB opens PostgreSQL, MongoDB and Redis. The caller owns Close.
func ConnectDB(ctx context.Context, cfg *Config) (*Database, error) {
	// 1. PostgreSQL Connection
	pgDB, err := gorm.Open(postgres.Open(cfg.Postgres.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}

	// 2. MongoDB Connection
	mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(mctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := mongoClient.Ping(mctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}

	// 3. Redis Connection
	redisClient, err := ConnectRedis(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, err
	}

	slog.Info("connected to PostgreSQL, MongoDB and Redis")

	return &Database{
		PG:    pgDB,
		Mongo: mongoClient.Database(cfg.Mongo.DBName),
		Redis: redisClient,
	}, nil
}

// ParseRedisURL validates a Redis connection URL.
func ParseRedisURL(url string) (*redis.Options, error) {
	if url == "" {
		return nil, fmt.Errorf("redis URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return opts, nil
}

func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := ParseRedisURL(url)
	if err != nil {
		return nil, err
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.RiskSnapshot{}); err != nil {
		return err
	}
	slog.Info("database migration completed")
	return nil
}

func (d *Database) Close(ctx context.Context) {
	if sqlDB, err := d.PG.DB(); err == nil {
		sqlDB.Close()
	}
	if err := d.Mongo.Client().Disconnect(ctx); err != nil {
		slog.Warn("mongo disconnect failed", "error", err)
	}
	d.Redis.Close()
}
