package usecase

import (
	"context"
	"testing"

	"lms-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSummarizeSurveys(t *testing.T) {
	sum := SummarizeSurveys([]domain.SurveyResponse{{Rating: 5}, {Rating: 4}, {Rating: 4}, {Rating: 0}})

	assert.Equal(t, 4, sum.Count)
	assert.Equal(t, 4.33, sum.AverageRating)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 2, 5: 1}, sum.Histogram)

	empty := SummarizeSurveys(nil)
	assert.Zero(t, empty.AverageRating)
	assert.Len(t, empty.Histogram, 5)
}

func TestSurveyUsecase_List(t *testing.T) {
	repo := new(MockSurveyRepository)
	repo.On("GetResponses", mock.Anything, "tok-admin").Return([]domain.SurveyResponse{
		{ID: "1", CourseID: "c1", Rating: 2, Comment: "too fast"},
		{ID: "2", CourseID: "c1", Rating: 5, Comment: "great"},
		{ID: "3", CourseID: "c2", Rating: 1},
	}, nil)

	page, sum, err := NewSurveyUsecase(repo, 1).List(context.Background(), adminSession, domain.SurveyFilter{
		ListParams: domain.ListParams{Sort: "-rating"},
		CourseID:   "c1",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "2", page.Items[0].ID)
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, 3.5, sum.AverageRating)
}
