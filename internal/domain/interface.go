package domain

import (
	"context"
	"io"
	"time"

	"lms-dashboard/pkg/query"
)

// ========== LMS BACKEND (REST) ==========
// Every call that acts on behalf of a user takes the backend bearer token of
// the caller's session.

type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, token string) (*User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) error
	VerifyEmail(ctx context.Context, verifyToken string) error
	ResendVerification(ctx context.Context, email string) error
}

type CourseRepository interface {
	GetAll(ctx context.Context, token string) ([]Course, error)
	GetByID(ctx context.Context, token, id string) (*Course, error)
}

type EnrollmentRepository interface {
	GetMine(ctx context.Context, token string) ([]Enrollment, error)
	GetAll(ctx context.Context, token string) ([]Enrollment, error)
	Enroll(ctx context.Context, token, courseID string) error
	Unenroll(ctx context.Context, token, courseID string) error
	BulkEnroll(ctx context.Context, token, courseID string, userIDs []string) error
	BulkUnenroll(ctx context.Context, token, courseID string, userIDs []string) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, token string, sub *Submission) (*Submission, error)
	GetMine(ctx context.Context, token string) ([]Submission, error)
	GetAll(ctx context.Context, token string) ([]Submission, error)
	Grade(ctx context.Context, token, id string, grade float64, feedback string) (*Submission, error)
}

type UserRepository interface {
	GetAll(ctx context.Context, token string) ([]User, error)
	UpdateRole(ctx context.Context, token, id string, role Role) (*User, error)
	QuickUpdate(ctx context.Context, token, id string, req QuickEditRequest) (*User, error)
	BulkCreate(ctx context.Context, token string, rows []NewUserRow) (int, error)
	UpdateOnboarding(ctx context.Context, token, id string, req OnboardingRequest) (*User, error)
}

type LogRepository interface {
	GetAll(ctx context.Context, token string) ([]LogEntry, error)
}

type SurveyRepository interface {
	GetResponses(ctx context.Context, token string) ([]SurveyResponse, error)
}

type CertificateRepository interface {
	Validate(ctx context.Context, code string) (*Certificate, error)
}

// BackendProbe reports whether the LMS backend answers at all.
type BackendProbe interface {
	Ping(ctx context.Context) error
}

// ========== GATEWAY STORES ==========

type SessionStore interface { // Redis
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type CatalogCache interface { // Redis
	GetCourses(ctx context.Context, key string) ([]Course, bool, error)
	SetCourses(ctx context.Context, key string, courses []Course) error
	Invalidate(ctx context.Context, keys ...string) error
}

type RiskSnapshotRepository interface { // PostgreSQL
	Create(ctx context.Context, snap *RiskSnapshot) error
	GetRecent(ctx context.Context, courseID string, limit int) ([]RiskSnapshot, error)
}

type AuditRepository interface { // MongoDB
	Create(ctx context.Context, event *AuditEvent) error
	GetRecent(ctx context.Context, limit int) ([]AuditEvent, error)
}

type ExportRepository interface { // MongoDB GridFS
	Save(ctx context.Context, meta ExportFile, content io.Reader) (*ExportFile, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *ExportFile, error)
}

// ========== USECASES ==========

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (string, *Session, error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, gatewayToken string) (*Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, password string) error
	VerifyEmail(ctx context.Context, verifyToken string) error
	ResendVerification(ctx context.Context, email string) error
}

type CatalogUsecase interface {
	Search(ctx context.Context, s *Session, params SearchParams) (query.Page[ScoredCourse], error)
	GetCourse(ctx context.Context, s *Session, id string) (*Course, error)
}

type EnrollmentUsecase interface {
	GetMine(ctx context.Context, s *Session) ([]EnrollmentWithRisk, ProgressSummary, error)
	Enroll(ctx context.Context, s *Session, courseID string) error
	Unenroll(ctx context.Context, s *Session, courseID string) error
	List(ctx context.Context, s *Session, f EnrollmentFilter) (query.Page[EnrollmentWithRisk], RiskHistogram, error)
	BulkEnroll(ctx context.Context, s *Session, req BulkEnrollRequest) error
	BulkUnenroll(ctx context.Context, s *Session, req BulkEnrollRequest) error
	SnapshotRisk(ctx context.Context, s *Session, courseID string) (*RiskSnapshot, error)
	RiskHistory(ctx context.Context, courseID string, limit int) ([]RiskSnapshot, error)
}

type SubmissionUsecase interface {
	Submit(ctx context.Context, s *Session, req SubmitRequest) (*Submission, error)
	GetMine(ctx context.Context, s *Session) ([]Submission, error)
	ReviewQueue(ctx context.Context, s *Session, f SubmissionFilter) (query.Page[Submission], error)
	Grade(ctx context.Context, s *Session, id string, req GradeRequest) (*Submission, error)
}

type UserAdminUsecase interface {
	List(ctx context.Context, s *Session, f UserFilter) (query.Page[User], error)
	ChangeRole(ctx context.Context, s *Session, id string, role Role) (*User, error)
	QuickEdit(ctx context.Context, s *Session, id string, req QuickEditRequest) (*User, error)
	BulkCreate(ctx context.Context, s *Session, rows []NewUserRow) (*BulkUserResult, error)
	ImportWorkbook(ctx context.Context, s *Session, r io.Reader) (*BulkUserResult, error)
	Export(ctx context.Context, s *Session, f UserFilter) (*ExportFile, error)
}

type LogUsecase interface {
	List(ctx context.Context, s *Session, f LogFilter) (query.Page[LogEntry], error)
	Since(ctx context.Context, s *Session, after time.Time) ([]LogEntry, error)
	Export(ctx context.Context, s *Session, f LogFilter) (*ExportFile, error)
	Audit(ctx context.Context, limit int) ([]AuditEvent, error)
}

type SurveyUsecase interface {
	List(ctx context.Context, s *Session, f SurveyFilter) (query.Page[SurveyResponse], SurveySummary, error)
}

type CertificateUsecase interface {
	Validate(ctx context.Context, code string) (*Certificate, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, s *Session) (*Profile, error)
	UpdateOnboarding(ctx context.Context, s *Session, req OnboardingRequest) (*Profile, error)
}

type DashboardUsecase interface {
	GetStudentDashboard(ctx context.Context, s *Session) (*StudentDashboardData, error)
	GetAdminDashboard(ctx context.Context, s *Session) (*AdminDashboardData, error)
}
