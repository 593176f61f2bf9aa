package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/query"
)

type enrollmentUsecase struct {
	enrollmentRepo domain.EnrollmentRepository
	courseRepo     domain.CourseRepository
	snapshotRepo   domain.RiskSnapshotRepository
	cache          domain.CatalogCache
	audit          *auditor
	pageSize       int
	now            func() time.Time
}

// NewEnrollmentUsecase builds the enrollment usecase. snapshots, cache and
// audit may be nil.
func NewEnrollmentUsecase(
	er domain.EnrollmentRepository,
	cr domain.CourseRepository,
	snapshots domain.RiskSnapshotRepository,
	cache domain.CatalogCache,
	audit domain.AuditRepository,
	pageSize int,
) domain.EnrollmentUsecase {
	return &enrollmentUsecase{
		enrollmentRepo: er,
		courseRepo:     cr,
		snapshotRepo:   snapshots,
		cache:          cache,
		audit:          newAuditor(audit),
		pageSize:       pageSize,
		now:            time.Now,
	}
}

// assess attaches risk to enrollments, fetching the catalog only when some
// enrollment does not embed its course.
func (uc *enrollmentUsecase) assess(ctx context.Context, s *domain.Session, enrollments []domain.Enrollment) ([]domain.EnrollmentWithRisk, error) {
	var durations map[string]int
	for _, e := range enrollments {
		if e.Course == nil {
			courses, err := uc.courseRepo.GetAll(ctx, s.BackendToken)
			if err != nil {
				return nil, err
			}
			durations = make(map[string]int, len(courses))
			for _, c := range courses {
				durations[c.ID] = c.EstimatedDuration
			}
			break
		}
	}
	return AssessEnrollments(enrollments, durations, uc.now()), nil
}

func (uc *enrollmentUsecase) GetMine(ctx context.Context, s *domain.Session) ([]domain.EnrollmentWithRisk, domain.ProgressSummary, error) {
	enrollments, err := uc.enrollmentRepo.GetMine(ctx, s.BackendToken)
	if err != nil {
		return nil, domain.ProgressSummary{}, err
	}
	assessed, err := uc.assess(ctx, s, enrollments)
	if err != nil {
		return nil, domain.ProgressSummary{}, err
	}
	summary, _ := Summarize(assessed)
	return assessed, summary, nil
}

func (uc *enrollmentUsecase) Enroll(ctx context.Context, s *domain.Session, courseID string) error {
	if strings.TrimSpace(courseID) == "" {
		return domain.NewValidationError(domain.FieldError{Field: "courseId", Message: "is required"})
	}
	if err := uc.enrollmentRepo.Enroll(ctx, s.BackendToken, courseID); err != nil {
		return err
	}
	uc.invalidate(ctx, s.UserID)
	return nil
}

func (uc *enrollmentUsecase) Unenroll(ctx context.Context, s *domain.Session, courseID string) error {
	if strings.TrimSpace(courseID) == "" {
		return domain.NewValidationError(domain.FieldError{Field: "courseId", Message: "is required"})
	}
	if err := uc.enrollmentRepo.Unenroll(ctx, s.BackendToken, courseID); err != nil {
		return err
	}
	uc.invalidate(ctx, s.UserID)
	return nil
}

// ========== ADMIN ==========

var enrollmentSorts = map[string]query.Comparator[domain.EnrollmentWithRisk]{
	"progress":     query.ByNumber(func(e domain.EnrollmentWithRisk) float64 { return e.Progress }),
	"enrolledAt":   query.ByTime(func(e domain.EnrollmentWithRisk) time.Time { return e.EnrolledAt }),
	"daysEnrolled": query.ByNumber(func(e domain.EnrollmentWithRisk) int { return e.DaysEnrolled }),
	"risk":         query.ByNumber(func(e domain.EnrollmentWithRisk) int { return riskRank(e.Risk) }),
	"user":         query.ByString(enrollmentUserName),
	"course":       query.ByString(enrollmentCourseTitle),
}

func enrollmentUserName(e domain.EnrollmentWithRisk) string {
	if e.User == nil {
		return ""
	}
	if e.User.Name != "" {
		return e.User.Name
	}
	return e.User.Username
}

func enrollmentCourseTitle(e domain.EnrollmentWithRisk) string {
	if e.Course == nil {
		return ""
	}
	return e.Course.Title
}

func enrollmentPredicate(f domain.EnrollmentFilter) func(domain.EnrollmentWithRisk) bool {
	return query.And(
		func(e domain.EnrollmentWithRisk) bool {
			fields := []string{enrollmentCourseTitle(e), e.CourseID, e.UserID}
			if e.User != nil {
				fields = append(fields, e.User.Name, e.User.Username, e.User.Email)
			}
			return query.MatchAny(f.Query, fields...)
		},
		func(e domain.EnrollmentWithRisk) bool { return f.CourseID == "" || e.CourseID == f.CourseID },
		func(e domain.EnrollmentWithRisk) bool { return f.Risk == "" || e.Risk == f.Risk },
		func(e domain.EnrollmentWithRisk) bool { return f.Completed == nil || e.Completed == *f.Completed },
	)
}

// List returns one page of all enrollments plus the risk histogram of every
// enrollment matching the filter.
func (uc *enrollmentUsecase) List(ctx context.Context, s *domain.Session, f domain.EnrollmentFilter) (query.Page[domain.EnrollmentWithRisk], domain.RiskHistogram, error) {
	assessed, err := uc.all(ctx, s)
	if err != nil {
		return query.Page[domain.EnrollmentWithRisk]{}, domain.RiskHistogram{}, err
	}

	matching := filterEnrollments(assessed, enrollmentPredicate(f))
	_, hist := Summarize(matching)

	page := query.Collection(matching, query.Options[domain.EnrollmentWithRisk]{
		Compare:  query.Sorter(query.ParseSort(f.Sort), enrollmentSorts),
		Page:     f.Page,
		PageSize: pageSizeOr(f.PageSize, uc.pageSize),
	})
	return page, hist, nil
}

func (uc *enrollmentUsecase) all(ctx context.Context, s *domain.Session) ([]domain.EnrollmentWithRisk, error) {
	enrollments, err := uc.enrollmentRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return nil, err
	}
	return uc.assess(ctx, s, enrollments)
}

func (uc *enrollmentUsecase) BulkEnroll(ctx context.Context, s *domain.Session, req domain.BulkEnrollRequest) error {
	userIDs, err := validateBulkEnroll(req)
	if err != nil {
		return err
	}
	err = uc.enrollmentRepo.BulkEnroll(ctx, s.BackendToken, req.CourseID, userIDs)
	uc.audit.record(ctx, s, "enrollment.bulk_enroll", req.CourseID, map[string]interface{}{"user_ids": userIDs}, err)
	if err != nil {
		return err
	}
	uc.invalidate(ctx, userIDs...)
	return nil
}

func (uc *enrollmentUsecase) BulkUnenroll(ctx context.Context, s *domain.Session, req domain.BulkEnrollRequest) error {
	userIDs, err := validateBulkEnroll(req)
	if err != nil {
		return err
	}
	err = uc.enrollmentRepo.BulkUnenroll(ctx, s.BackendToken, req.CourseID, userIDs)
	uc.audit.record(ctx, s, "enrollment.bulk_unenroll", req.CourseID, map[string]interface{}{"user_ids": userIDs}, err)
	if err != nil {
		return err
	}
	uc.invalidate(ctx, userIDs...)
	return nil
}

// validateBulkEnroll returns the trimmed, de-duplicated user ids.
func validateBulkEnroll(req domain.BulkEnrollRequest) ([]string, error) {
	var fields []domain.FieldError
	if strings.TrimSpace(req.CourseID) == "" {
		fields = append(fields, domain.FieldError{Field: "courseId", Message: "is required"})
	}
	seen := make(map[string]bool, len(req.UserIDs))
	ids := make([]string, 0, len(req.UserIDs))
	for _, id := range req.UserIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		fields = append(fields, domain.FieldError{Field: "userIds", Message: "must contain at least one user"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}
	return ids, nil
}

// SnapshotRisk stores the current risk histogram of a course, or of every
// course when courseID is empty.
func (uc *enrollmentUsecase) SnapshotRisk(ctx context.Context, s *domain.Session, courseID string) (*domain.RiskSnapshot, error) {
	if uc.snapshotRepo == nil {
		return nil, domain.ErrBackendUnavailable
	}
	assessed, err := uc.all(ctx, s)
	if err != nil {
		return nil, err
	}
	if courseID != "" {
		assessed = filterEnrollments(assessed, func(e domain.EnrollmentWithRisk) bool { return e.CourseID == courseID })
	}
	summary, hist := Summarize(assessed)

	snap := &domain.RiskSnapshot{
		CourseID:    courseID,
		TakenBy:     s.UserID,
		Total:       summary.Total,
		Low:         hist.Low,
		Medium:      hist.Medium,
		High:        hist.High,
		AvgProgress: summary.AverageProgress,
		CreatedAt:   uc.now(),
	}
	err = uc.snapshotRepo.Create(ctx, snap)
	uc.audit.record(ctx, s, "risk.snapshot", courseID, map[string]interface{}{"total": snap.Total, "high": snap.High}, err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (uc *enrollmentUsecase) RiskHistory(ctx context.Context, courseID string, limit int) ([]domain.RiskSnapshot, error) {
	if uc.snapshotRepo == nil {
		return []domain.RiskSnapshot{}, nil
	}
	snaps, err := uc.snapshotRepo.GetRecent(ctx, courseID, limit)
	if err != nil {
		return nil, err
	}
	if snaps == nil {
		snaps = []domain.RiskSnapshot{}
	}
	return snaps, nil
}

func (uc *enrollmentUsecase) invalidate(ctx context.Context, userIDs ...string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, userIDs...); err != nil {
		slog.Warn("catalog cache invalidation failed", "users", len(userIDs), "error", err)
	}
}

func filterEnrollments(in []domain.EnrollmentWithRisk, keep func(domain.EnrollmentWithRisk) bool) []domain.EnrollmentWithRisk {
	out := make([]domain.EnrollmentWithRisk, 0, len(in))
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
