package repository

import (
	"context"
	"net/http"

	"lms-dashboard/internal/domain"
)

// ========== AUTH REPOSITORY ==========

type authRepo struct {
	b *Backend
}

func NewAuthRepository(b *Backend) domain.AuthRepository {
	return &authRepo{b}
}

func (r *authRepo) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	var res domain.LoginResult
	err := r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": email, "password": password},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *authRepo) Me(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/auth/me", token: token}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *authRepo) ForgotPassword(ctx context.Context, email string) error {
	return r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/forgot-password",
		body:   map[string]string{"email": email},
	}, nil)
}

func (r *authRepo) ResetPassword(ctx context.Context, resetToken, password string) error {
	return r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/reset-password",
		body:   map[string]string{"token": resetToken, "password": password},
	}, nil)
}

func (r *authRepo) VerifyEmail(ctx context.Context, verifyToken string) error {
	return r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/verify-email",
		body:   map[string]string{"token": verifyToken},
	}, nil)
}

func (r *authRepo) ResendVerification(ctx context.Context, email string) error {
	return r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/resend-verification",
		body:   map[string]string{"email": email},
	}, nil)
}

// ========== COURSE REPOSITORY ==========

type courseRepo struct {
	b *Backend
}

func NewCourseRepository(b *Backend) domain.CourseRepository {
	return &courseRepo{b}
}

func (r *courseRepo) GetAll(ctx context.Context, token string) ([]domain.Course, error) {
	var courses []domain.Course
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/courses", token: token, schema: "courses"}, &courses)
	return courses, err
}

func (r *courseRepo) GetByID(ctx context.Context, token, id string) (*domain.Course, error) {
	var course domain.Course
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/courses/" + escape(id), token: token, schema: "course"}, &course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ========== ENROLLMENT REPOSITORY ==========

type enrollmentRepo struct {
	b *Backend
}

func NewEnrollmentRepository(b *Backend) domain.EnrollmentRepository {
	return &enrollmentRepo{b}
}

func (r *enrollmentRepo) GetMine(ctx context.Context, token string) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/enrollments/my", token: token, schema: "enrollments"}, &enrollments)
	return enrollments, err
}

func (r *enrollmentRepo) GetAll(ctx context.Context, token string) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/enrollments/all", token: token, schema: "enrollments"}, &enrollments)
	return enrollments, err
}

func (r *enrollmentRepo) Enroll(ctx context.Context, token, courseID string) error {
	return r.b.do(ctx, call{method: http.MethodPost, path: "/api/enrollments/" + escape(courseID), token: token}, nil)
}

func (r *enrollmentRepo) Unenroll(ctx context.Context, token, courseID string) error {
	return r.b.do(ctx, call{method: http.MethodDelete, path: "/api/enrollments/" + escape(courseID), token: token}, nil)
}

func (r *enrollmentRepo) BulkEnroll(ctx context.Context, token, courseID string, userIDs []string) error {
	return r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/enrollments/bulk",
		token:  token,
		body:   domain.BulkEnrollRequest{CourseID: courseID, UserIDs: userIDs},
	}, nil)
}

func (r *enrollmentRepo) BulkUnenroll(ctx context.Context, token, courseID string, userIDs []string) error {
	return r.b.do(ctx, call{
		method: http.MethodDelete,
		path:   "/api/enrollments/bulk",
		token:  token,
		body:   domain.BulkEnrollRequest{CourseID: courseID, UserIDs: userIDs},
	}, nil)
}

// ========== SUBMISSION REPOSITORY ==========

type submissionRepo struct {
	b *Backend
}

func NewSubmissionRepository(b *Backend) domain.SubmissionRepository {
	return &submissionRepo{b}
}

func (r *submissionRepo) Create(ctx context.Context, token string, sub *domain.Submission) (*domain.Submission, error) {
	var created domain.Submission
	err := r.b.do(ctx, call{method: http.MethodPost, path: "/api/submissions", token: token, body: sub}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *submissionRepo) GetMine(ctx context.Context, token string) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/submissions/my", token: token, schema: "submissions"}, &subs)
	return subs, err
}

func (r *submissionRepo) GetAll(ctx context.Context, token string) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/submissions/all", token: token, schema: "submissions"}, &subs)
	return subs, err
}

func (r *submissionRepo) Grade(ctx context.Context, token, id string, grade float64, feedback string) (*domain.Submission, error) {
	var graded domain.Submission
	err := r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/submissions/" + escape(id) + "/grade",
		token:  token,
		body:   map[string]interface{}{"grade": grade, "feedback": feedback},
	}, &graded)
	if err != nil {
		return nil, err
	}
	return &graded, nil
}

// ========== USER REPOSITORY ==========

type userRepo struct {
	b *Backend
}

func NewUserRepository(b *Backend) domain.UserRepository {
	return &userRepo{b}
}

func (r *userRepo) GetAll(ctx context.Context, token string) ([]domain.User, error) {
	var users []domain.User
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/auth/users", token: token, schema: "users"}, &users)
	return users, err
}

func (r *userRepo) UpdateRole(ctx context.Context, token, id string, role domain.Role) (*domain.User, error) {
	var user domain.User
	err := r.b.do(ctx, call{
		method: http.MethodPatch,
		path:   "/api/users/" + escape(id) + "/role",
		token:  token,
		body:   map[string]domain.Role{"role": role},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) QuickUpdate(ctx context.Context, token, id string, req domain.QuickEditRequest) (*domain.User, error) {
	var user domain.User
	err := r.b.do(ctx, call{method: http.MethodPut, path: "/api/users/" + escape(id) + "/quick", token: token, body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) BulkCreate(ctx context.Context, token string, rows []domain.NewUserRow) (int, error) {
	var res struct {
		Created int `json:"created"`
	}
	err := r.b.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/users/bulk",
		token:  token,
		body:   map[string][]domain.NewUserRow{"users": rows},
	}, &res)
	return res.Created, err
}

func (r *userRepo) UpdateOnboarding(ctx context.Context, token, id string, req domain.OnboardingRequest) (*domain.User, error) {
	var user domain.User
	err := r.b.do(ctx, call{method: http.MethodPatch, path: "/api/users/" + escape(id) + "/onboarding", token: token, body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ========== LOG, SURVEY & CERTIFICATE REPOSITORIES ==========

type logRepo struct {
	b *Backend
}

func NewLogRepository(b *Backend) domain.LogRepository {
	return &logRepo{b}
}

func (r *logRepo) GetAll(ctx context.Context, token string) ([]domain.LogEntry, error) {
	var logs []domain.LogEntry
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/logs", token: token, schema: "logs"}, &logs)
	return logs, err
}

type surveyRepo struct {
	b *Backend
}

func NewSurveyRepository(b *Backend) domain.SurveyRepository {
	return &surveyRepo{b}
}

func (r *surveyRepo) GetResponses(ctx context.Context, token string) ([]domain.SurveyResponse, error) {
	var responses []domain.SurveyResponse
	err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/feedback/survey-responses", token: token, schema: "surveys"}, &responses)
	return responses, err
}

type certificateRepo struct {
	b *Backend
}

func NewCertificateRepository(b *Backend) domain.CertificateRepository {
	return &certificateRepo{b}
}

// Validate is public: no token is sent.
func (r *certificateRepo) Validate(ctx context.Context, code string) (*domain.Certificate, error) {
	var cert domain.Certificate
	if err := r.b.do(ctx, call{method: http.MethodGet, path: "/api/certificates/validate/" + escape(code)}, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}
