package usecase

import (
	"context"
	"math"
	"time"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/query"
)

type surveyUsecase struct {
	surveyRepo domain.SurveyRepository
	pageSize   int
}

func NewSurveyUsecase(sr domain.SurveyRepository, pageSize int) domain.SurveyUsecase {
	return &surveyUsecase{surveyRepo: sr, pageSize: pageSize}
}

var surveySorts = map[string]query.Comparator[domain.SurveyResponse]{
	"rating":    query.ByNumber(func(r domain.SurveyResponse) int { return r.Rating }),
	"createdAt": query.ByTime(func(r domain.SurveyResponse) time.Time { return r.CreatedAt }),
	"username":  query.ByString(func(r domain.SurveyResponse) string { return r.Username }),
}

// List pages survey responses. The summary covers every response matching
// the filter, not just the page.
func (uc *surveyUsecase) List(ctx context.Context, s *domain.Session, f domain.SurveyFilter) (query.Page[domain.SurveyResponse], domain.SurveySummary, error) {
	responses, err := uc.surveyRepo.GetResponses(ctx, s.BackendToken)
	if err != nil {
		return query.Page[domain.SurveyResponse]{}, domain.SurveySummary{}, err
	}

	pred := query.And(
		func(r domain.SurveyResponse) bool { return query.MatchAny(f.Query, r.Username, r.Comment, r.CourseID) },
		func(r domain.SurveyResponse) bool { return f.CourseID == "" || r.CourseID == f.CourseID },
	)
	matching := make([]domain.SurveyResponse, 0, len(responses))
	for _, r := range responses {
		if pred(r) {
			matching = append(matching, r)
		}
	}

	page := query.Collection(matching, query.Options[domain.SurveyResponse]{
		Compare:  query.Sorter(query.ParseSort(f.Sort), surveySorts),
		Page:     f.Page,
		PageSize: pageSizeOr(f.PageSize, uc.pageSize),
	})
	return page, SummarizeSurveys(matching), nil
}

// SummarizeSurveys counts ratings 1 to 5. Ratings outside that range are
// counted but left out of the average and the histogram.
func SummarizeSurveys(responses []domain.SurveyResponse) domain.SurveySummary {
	sum := domain.SurveySummary{Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	rated, total := 0, 0
	for _, r := range responses {
		sum.Count++
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		sum.Histogram[r.Rating]++
		rated++
		total += r.Rating
	}
	if rated > 0 {
		sum.AverageRating = math.Round(float64(total)/float64(rated)*100) / 100
	}
	return sum
}
