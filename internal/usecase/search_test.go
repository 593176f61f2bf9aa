package usecase

import (
	"context"
	"errors"
	"testing"

	"lms-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScoreCourse(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		course domain.Course
		want   int
	}{
		{"exact type", "video", domain.Course{Type: "Video"}, ScoreExactTypeOrCategory},
		{"exact category", "design", domain.Course{Categories: []string{"Web", "Design"}}, ScoreExactTypeOrCategory},
		{"partial type", "vid", domain.Course{Type: "Video"}, ScoreTypeOrCategory},
		{"partial category", "prog", domain.Course{Categories: []string{"Programming"}}, ScoreTypeOrCategory},
		{"title only", "video", domain.Course{Title: "Intro to Video Editing"}, ScoreTitle},
		{"instructor", "ada", domain.Course{Instructor: "Ada Lovelace"}, ScoreInstructor},
		{"co-instructor", "grace", domain.Course{Instructors: []string{"Ada", "Grace Hopper"}}, ScoreInstructor},
		{"description", "pointers", domain.Course{Description: "All about Pointers"}, ScoreDescription},
		{"level", "begin", domain.Course{Level: "Beginner"}, ScoreLevel},
		{"first tier wins", "video", domain.Course{Type: "video", Title: "Video", Level: "video"}, ScoreExactTypeOrCategory},
		{"padded query", "  VIDEO ", domain.Course{Type: "Video"}, ScoreExactTypeOrCategory},
		{"no match", "cobol", domain.Course{Title: "Go", Type: "Text"}, 0},
		{"blank query", "  ", domain.Course{Title: "Go"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreCourse(tt.query, tt.course))
		})
	}
}

func TestScoreCourse_TiersAreOrdered(t *testing.T) {
	exact := ScoreCourse("video", domain.Course{Type: "Video"})
	partial := ScoreCourse("video", domain.Course{Type: "Video Lectures"})
	title := ScoreCourse("video", domain.Course{Title: "Intro to Video Editing"})

	assert.Greater(t, exact, partial)
	assert.Greater(t, partial, title)
}

func TestRankCourses(t *testing.T) {
	courses := []domain.Course{
		{ID: "1", Title: "Video basics"},
		{ID: "2", Type: "Text", Title: "Reading"},
		{ID: "3", Type: "Video"},
		{ID: "4", Title: "More video"},
		{ID: "5", Categories: []string{"videography"}},
	}

	ranked := RankCourses("video", courses)

	ids := make([]string, len(ranked))
	for i, c := range ranked {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"3", "5", "1", "4"}, ids)
	assert.Equal(t, ScoreExactTypeOrCategory, ranked[0].Score)
}

func TestRankCourses_BlankQueryKeepsAll(t *testing.T) {
	courses := []domain.Course{{ID: "b"}, {ID: "a"}}
	ranked := RankCourses("", courses)

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].ID)
	assert.Zero(t, ranked[0].Score)
}

func TestFilterByCategory(t *testing.T) {
	courses := []domain.Course{
		{ID: "1", Categories: []string{"Design"}},
		{ID: "2", Categories: []string{"Programming"}},
	}

	assert.Len(t, FilterByCategory(courses, ""), 2)
	assert.Len(t, FilterByCategory(courses, "All"), 2)
	got := FilterByCategory(courses, "design")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestCatalogUsecase_Search(t *testing.T) {
	courses := []domain.Course{
		{ID: "1", Title: "Go", Type: "Video"},
		{ID: "2", Title: "Video editing"},
		{ID: "3", Title: "Rust"},
	}

	t.Run("cache miss fills cache", func(t *testing.T) {
		repo := new(MockCourseRepository)
		cache := new(MockCatalogCache)
		cache.On("GetCourses", mock.Anything, "u-1").Return(nil, false, nil).Once()
		repo.On("GetAll", mock.Anything, "tok-student").Return(courses, nil).Once()
		cache.On("SetCourses", mock.Anything, "u-1", courses).Return(nil).Once()

		uc := NewCatalogUsecase(repo, cache, 50)
		page, err := uc.Search(context.Background(), studentSession, domain.SearchParams{Query: "video"})

		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, "1", page.Items[0].ID)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips backend", func(t *testing.T) {
		repo := new(MockCourseRepository)
		cache := new(MockCatalogCache)
		cache.On("GetCourses", mock.Anything, "u-1").Return(courses, true, nil).Once()

		uc := NewCatalogUsecase(repo, cache, 2)
		page, err := uc.Search(context.Background(), studentSession, domain.SearchParams{})

		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.TotalPages)
		assert.Len(t, page.Items, 2)
		repo.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything)
	})

	t.Run("cache error falls through", func(t *testing.T) {
		repo := new(MockCourseRepository)
		cache := new(MockCatalogCache)
		cache.On("GetCourses", mock.Anything, "u-1").Return(nil, false, errors.New("redis down")).Once()
		repo.On("GetAll", mock.Anything, "tok-student").Return(courses, nil).Once()
		cache.On("SetCourses", mock.Anything, "u-1", courses).Return(errors.New("redis down")).Once()

		uc := NewCatalogUsecase(repo, cache, 50)
		page, err := uc.Search(context.Background(), studentSession, domain.SearchParams{Query: "rust"})

		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("backend asleep", func(t *testing.T) {
		repo := new(MockCourseRepository)
		repo.On("GetAll", mock.Anything, "tok-student").Return(nil, domain.ErrBackendAsleep).Once()

		uc := NewCatalogUsecase(repo, nil, 50)
		_, err := uc.Search(context.Background(), studentSession, domain.SearchParams{})

		assert.ErrorIs(t, err, domain.ErrBackendAsleep)
	})
}
