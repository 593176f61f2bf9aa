package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/query"
)

// ComposeSubmission checks a submission before it is sent and returns the
// payload carrying only the field its type uses.
func ComposeSubmission(req domain.SubmitRequest) (*domain.Submission, error) {
	sub := &domain.Submission{
		Kind:           req.Kind,
		CourseID:       strings.TrimSpace(req.CourseID),
		ItemID:         strings.TrimSpace(req.ItemID),
		SubmissionType: req.SubmissionType,
	}

	var fields []domain.FieldError
	if sub.CourseID == "" {
		fields = append(fields, domain.FieldError{Field: "courseId", Message: "is required"})
	}
	if sub.ItemID == "" {
		fields = append(fields, domain.FieldError{Field: "itemId", Message: "is required"})
	}

	switch req.SubmissionType {
	case domain.SubmissionText:
		sub.Text = strings.TrimSpace(req.Text)
		if sub.Text == "" {
			fields = append(fields, domain.FieldError{Field: "text", Message: "must not be empty"})
		}
	case domain.SubmissionLink:
		sub.Link = strings.TrimSpace(req.Link)
		if !isWebURL(sub.Link) {
			fields = append(fields, domain.FieldError{Field: "link", Message: "must be an absolute http or https URL"})
		}
	case domain.SubmissionFile:
		sub.FileURL = strings.TrimSpace(req.FileURL)
		if sub.FileURL == "" {
			fields = append(fields, domain.FieldError{Field: "fileUrl", Message: "a file must be uploaded first"})
		}
	default:
		fields = append(fields, domain.FieldError{Field: "submissionType", Message: "must be one of text, link, file"})
	}

	switch req.Kind {
	case domain.KindAssignment, domain.KindProject, domain.KindQuiz:
	default:
		fields = append(fields, domain.FieldError{Field: "kind", Message: "must be one of assignment, project, quiz"})
	}

	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	return sub, nil
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type submissionUsecase struct {
	submissionRepo domain.SubmissionRepository
	audit          *auditor
	pageSize       int
}

func NewSubmissionUsecase(sr domain.SubmissionRepository, audit domain.AuditRepository, pageSize int) domain.SubmissionUsecase {
	return &submissionUsecase{submissionRepo: sr, audit: newAuditor(audit), pageSize: pageSize}
}

func (uc *submissionUsecase) Submit(ctx context.Context, s *domain.Session, req domain.SubmitRequest) (*domain.Submission, error) {
	sub, err := ComposeSubmission(req)
	if err != nil {
		return nil, err
	}
	sub.UserID = s.UserID
	return uc.submissionRepo.Create(ctx, s.BackendToken, sub)
}

func (uc *submissionUsecase) GetMine(ctx context.Context, s *domain.Session) ([]domain.Submission, error) {
	return uc.submissionRepo.GetMine(ctx, s.BackendToken)
}

var submissionSorts = map[string]query.Comparator[domain.Submission]{
	"submittedAt": query.ByTime(func(s domain.Submission) time.Time { return s.SubmittedAt }),
	"username":    query.ByString(func(s domain.Submission) string { return s.Username }),
	"status":      query.ByString(func(s domain.Submission) string { return s.Status }),
	"kind":        query.ByString(func(s domain.Submission) string { return string(s.Kind) }),
	"grade": query.ByNumber(func(s domain.Submission) float64 {
		if s.Grade == nil {
			return -1
		}
		return *s.Grade
	}),
}

func (uc *submissionUsecase) ReviewQueue(ctx context.Context, s *domain.Session, f domain.SubmissionFilter) (query.Page[domain.Submission], error) {
	subs, err := uc.submissionRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return query.Page[domain.Submission]{}, err
	}
	return query.Collection(subs, query.Options[domain.Submission]{
		Predicate: query.And(
			func(sub domain.Submission) bool {
				return query.MatchAny(f.Query, sub.Username, sub.CourseID, sub.ItemID, sub.Text, sub.Link)
			},
			func(sub domain.Submission) bool { return f.Kind == "" || sub.Kind == f.Kind },
			func(sub domain.Submission) bool { return f.Status == "" || strings.EqualFold(sub.Status, f.Status) },
		),
		Compare:  query.Sorter(query.ParseSort(f.Sort), submissionSorts),
		Page:     f.Page,
		PageSize: pageSizeOr(f.PageSize, uc.pageSize),
	}), nil
}

func (uc *submissionUsecase) Grade(ctx context.Context, s *domain.Session, id string, req domain.GradeRequest) (*domain.Submission, error) {
	if req.Grade == nil || *req.Grade < 0 || *req.Grade > 100 {
		return nil, domain.NewValidationError(domain.FieldError{Field: "grade", Message: "must be between 0 and 100"})
	}
	sub, err := uc.submissionRepo.Grade(ctx, s.BackendToken, id, *req.Grade, strings.TrimSpace(req.Feedback))
	uc.audit.record(ctx, s, "submission.grade", id, map[string]interface{}{"grade": *req.Grade}, err)
	return sub, err
}
