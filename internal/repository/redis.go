package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix = "session:" // string: session:{id} -> JSON session
	catalogPrefix = "catalog:" // string: catalog:{key} -> JSON course list
)

// ========== SESSION STORE ==========

type sessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) domain.SessionStore {
	return &sessionStore{client}
}

func (s *sessionStore) Create(ctx context.Context, session *domain.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return domain.ErrSessionExpired
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionPrefix+id).Err()
}

// ========== CATALOG CACHE ==========

type catalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) domain.CatalogCache {
	return &catalogCache{client: client, ttl: ttl}
}

func (c *catalogCache) GetCourses(ctx context.Context, key string) ([]domain.Course, bool, error) {
	data, err := c.client.Get(ctx, catalogPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var courses []domain.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, false, err
	}
	return courses, true, nil
}

func (c *catalogCache) SetCourses(ctx context.Context, key string, courses []domain.Course) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(courses)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogPrefix+key, data, c.ttl).Err()
}

func (c *catalogCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = catalogPrefix + k
	}
	return c.client.Del(ctx, full...).Err()
}
