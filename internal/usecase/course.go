package usecase

import (
	"context"
	"log/slog"
	"strings"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/query"
)

type catalogUsecase struct {
	courseRepo domain.CourseRepository
	cache      domain.CatalogCache
	pageSize   int
}

// NewCatalogUsecase builds the course search. cache may be nil.
func NewCatalogUsecase(cr domain.CourseRepository, cache domain.CatalogCache, pageSize int) domain.CatalogUsecase {
	return &catalogUsecase{courseRepo: cr, cache: cache, pageSize: pageSize}
}

// courses returns the catalog as seen by the session's user. The backend
// marks enrolled courses per user, so the cache is keyed by user id.
func (uc *catalogUsecase) courses(ctx context.Context, s *domain.Session) ([]domain.Course, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.GetCourses(ctx, s.UserID)
		if err != nil {
			slog.Warn("catalog cache read failed", "user_id", s.UserID, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	courses, err := uc.courseRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		if err := uc.cache.SetCourses(ctx, s.UserID, courses); err != nil {
			slog.Warn("catalog cache write failed", "user_id", s.UserID, "error", err)
		}
	}
	return courses, nil
}

func (uc *catalogUsecase) Search(ctx context.Context, s *domain.Session, params domain.SearchParams) (query.Page[domain.ScoredCourse], error) {
	courses, err := uc.courses(ctx, s)
	if err != nil {
		return query.Page[domain.ScoredCourse]{}, err
	}
	ranked := RankCourses(params.Query, FilterByCategory(courses, params.Category))
	return query.Paginate(ranked, params.Page, pageSizeOr(params.PageSize, uc.pageSize)), nil
}

func (uc *catalogUsecase) GetCourse(ctx context.Context, s *domain.Session, id string) (*domain.Course, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return uc.courseRepo.GetByID(ctx, s.BackendToken, id)
}

const maxPageSize = 200

func pageSizeOr(requested, fallback int) int {
	switch {
	case requested > maxPageSize:
		return maxPageSize
	case requested > 0:
		return requested
	}
	return fallback
}
