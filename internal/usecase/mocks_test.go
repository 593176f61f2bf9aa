package usecase

import (
	"context"
	"io"

	"lms-dashboard/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockAuthRepository struct{ mock.Mock }

func (m *MockAuthRepository) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*domain.LoginResult)
	return res, args.Error(1)
}

func (m *MockAuthRepository) Me(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockAuthRepository) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthRepository) ResetPassword(ctx context.Context, resetToken, password string) error {
	return m.Called(ctx, resetToken, password).Error(0)
}

func (m *MockAuthRepository) VerifyEmail(ctx context.Context, verifyToken string) error {
	return m.Called(ctx, verifyToken).Error(0)
}

func (m *MockAuthRepository) ResendVerification(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type MockCourseRepository struct{ mock.Mock }

func (m *MockCourseRepository) GetAll(ctx context.Context, token string) ([]domain.Course, error) {
	args := m.Called(ctx, token)
	cs, _ := args.Get(0).([]domain.Course)
	return cs, args.Error(1)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, token, id string) (*domain.Course, error) {
	args := m.Called(ctx, token, id)
	c, _ := args.Get(0).(*domain.Course)
	return c, args.Error(1)
}

type MockEnrollmentRepository struct{ mock.Mock }

func (m *MockEnrollmentRepository) GetMine(ctx context.Context, token string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, token)
	es, _ := args.Get(0).([]domain.Enrollment)
	return es, args.Error(1)
}

func (m *MockEnrollmentRepository) GetAll(ctx context.Context, token string) ([]domain.Enrollment, error) {
	args := m.Called(ctx, token)
	es, _ := args.Get(0).([]domain.Enrollment)
	return es, args.Error(1)
}

func (m *MockEnrollmentRepository) Enroll(ctx context.Context, token, courseID string) error {
	return m.Called(ctx, token, courseID).Error(0)
}

func (m *MockEnrollmentRepository) Unenroll(ctx context.Context, token, courseID string) error {
	return m.Called(ctx, token, courseID).Error(0)
}

func (m *MockEnrollmentRepository) BulkEnroll(ctx context.Context, token, courseID string, userIDs []string) error {
	return m.Called(ctx, token, courseID, userIDs).Error(0)
}

func (m *MockEnrollmentRepository) BulkUnenroll(ctx context.Context, token, courseID string, userIDs []string) error {
	return m.Called(ctx, token, courseID, userIDs).Error(0)
}

type MockSubmissionRepository struct{ mock.Mock }

func (m *MockSubmissionRepository) Create(ctx context.Context, token string, sub *domain.Submission) (*domain.Submission, error) {
	args := m.Called(ctx, token, sub)
	s, _ := args.Get(0).(*domain.Submission)
	return s, args.Error(1)
}

func (m *MockSubmissionRepository) GetMine(ctx context.Context, token string) ([]domain.Submission, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).([]domain.Submission)
	return s, args.Error(1)
}

func (m *MockSubmissionRepository) GetAll(ctx context.Context, token string) ([]domain.Submission, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).([]domain.Submission)
	return s, args.Error(1)
}

func (m *MockSubmissionRepository) Grade(ctx context.Context, token, id string, grade float64, feedback string) (*domain.Submission, error) {
	args := m.Called(ctx, token, id, grade, feedback)
	s, _ := args.Get(0).(*domain.Submission)
	return s, args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetAll(ctx context.Context, token string) ([]domain.User, error) {
	args := m.Called(ctx, token)
	us, _ := args.Get(0).([]domain.User)
	return us, args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, token, id string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, token, id, role)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) QuickUpdate(ctx context.Context, token, id string, req domain.QuickEditRequest) (*domain.User, error) {
	args := m.Called(ctx, token, id, req)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) BulkCreate(ctx context.Context, token string, rows []domain.NewUserRow) (int, error) {
	args := m.Called(ctx, token, rows)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) UpdateOnboarding(ctx context.Context, token, id string, req domain.OnboardingRequest) (*domain.User, error) {
	args := m.Called(ctx, token, id, req)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type MockLogRepository struct{ mock.Mock }

func (m *MockLogRepository) GetAll(ctx context.Context, token string) ([]domain.LogEntry, error) {
	args := m.Called(ctx, token)
	ls, _ := args.Get(0).([]domain.LogEntry)
	return ls, args.Error(1)
}

type MockSurveyRepository struct{ mock.Mock }

func (m *MockSurveyRepository) GetResponses(ctx context.Context, token string) ([]domain.SurveyResponse, error) {
	args := m.Called(ctx, token)
	rs, _ := args.Get(0).([]domain.SurveyResponse)
	return rs, args.Error(1)
}

type MockCertificateRepository struct{ mock.Mock }

func (m *MockCertificateRepository) Validate(ctx context.Context, code string) (*domain.Certificate, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(*domain.Certificate)
	return c, args.Error(1)
}

type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Create(ctx context.Context, session *domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*domain.Session)
	return s, args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCatalogCache struct{ mock.Mock }

func (m *MockCatalogCache) GetCourses(ctx context.Context, key string) ([]domain.Course, bool, error) {
	args := m.Called(ctx, key)
	cs, _ := args.Get(0).([]domain.Course)
	return cs, args.Bool(1), args.Error(2)
}

func (m *MockCatalogCache) SetCourses(ctx context.Context, key string, courses []domain.Course) error {
	return m.Called(ctx, key, courses).Error(0)
}

func (m *MockCatalogCache) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type MockRiskSnapshotRepository struct{ mock.Mock }

func (m *MockRiskSnapshotRepository) Create(ctx context.Context, snap *domain.RiskSnapshot) error {
	return m.Called(ctx, snap).Error(0)
}

func (m *MockRiskSnapshotRepository) GetRecent(ctx context.Context, courseID string, limit int) ([]domain.RiskSnapshot, error) {
	args := m.Called(ctx, courseID, limit)
	s, _ := args.Get(0).([]domain.RiskSnapshot)
	return s, args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockAuditRepository) GetRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, limit)
	e, _ := args.Get(0).([]domain.AuditEvent)
	return e, args.Error(1)
}

type MockExportRepository struct{ mock.Mock }

func (m *MockExportRepository) Save(ctx context.Context, meta domain.ExportFile, content io.Reader) (*domain.ExportFile, error) {
	args := m.Called(ctx, meta, content)
	f, _ := args.Get(0).(*domain.ExportFile)
	return f, args.Error(1)
}

func (m *MockExportRepository) Open(ctx context.Context, id string) (io.ReadCloser, *domain.ExportFile, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	f, _ := args.Get(1).(*domain.ExportFile)
	return rc, f, args.Error(2)
}

var (
	studentSession = &domain.Session{ID: "sess-s", UserID: "u-1", Role: domain.RoleStudent, BackendToken: "tok-student"}
	adminSession   = &domain.Session{ID: "sess-a", UserID: "u-admin", Role: domain.RoleAdmin, BackendToken: "tok-admin"}
)
