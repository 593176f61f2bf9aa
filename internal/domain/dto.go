package domain

// ========== REQUESTS ==========

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is what the backend hands back from /api/auth/login.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type SubmitRequest struct {
	Kind           SubmissionKind `json:"kind" binding:"required,oneof=assignment project quiz"`
	CourseID       string         `json:"courseId" binding:"required"`
	ItemID         string         `json:"itemId" binding:"required"`
	SubmissionType SubmissionType `json:"submissionType" binding:"required,oneof=text link file"`
	Text           string         `json:"text"`
	Link           string         `json:"link"`
	FileURL        string         `json:"fileUrl"`
}

type GradeRequest struct {
	Grade    *float64 `json:"grade" binding:"required,gte=0,lte=100"`
	Feedback string   `json:"feedback"`
}

type RoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=student instructor admin"`
}

type QuickEditRequest struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty" binding:"omitempty,email"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

// NewUserRow is one row of a bulk user creation, from JSON or a workbook.
type NewUserRow struct {
	Username string `json:"username" validate:"required,username"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"required,oneof=student instructor admin"`
	Password string `json:"password" validate:"required,password"`
}

type BulkUsersRequest struct {
	Users []NewUserRow `json:"users" binding:"required,min=1"`
}

type BulkEnrollRequest struct {
	CourseID string   `json:"courseId" binding:"required"`
	UserIDs  []string `json:"userIds" binding:"required,min=1"`
}

type OnboardingRequest struct {
	HasSeenTour       *bool `json:"hasSeenTour,omitempty"`
	HasSeenOnboarding *bool `json:"hasSeenOnboarding,omitempty"`
}

// ========== LIST PARAMS ==========

// ListParams is the common query string of every admin table.
type ListParams struct {
	Query    string `form:"q"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type SearchParams struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type EnrollmentFilter struct {
	ListParams
	CourseID  string    `form:"course"`
	Risk      RiskLevel `form:"risk"`
	Completed *bool     `form:"completed"`
}

type SubmissionFilter struct {
	ListParams
	Kind   SubmissionKind `form:"kind"`
	Status string         `form:"status"`
}

type UserFilter struct {
	ListParams
	Role     Role  `form:"role"`
	Verified *bool `form:"verified"`
}

type LogFilter struct {
	ListParams
	Action string `form:"action"`
}

type SurveyFilter struct {
	ListParams
	CourseID string `form:"course"`
}

type RiskHistoryParams struct {
	CourseID string `form:"course"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

type AuditParams struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ========== RESPONSES ==========

type ScoredCourse struct {
	Course
	Score int `json:"score"`
}

type EnrollmentWithRisk struct {
	Enrollment
	DaysEnrolled int       `json:"daysEnrolled"`
	Risk         RiskLevel `json:"risk"`
}

type ProgressSummary struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	InProgress      int     `json:"inProgress"`
	AverageProgress float64 `json:"averageProgress"`
	AtRisk          int     `json:"atRisk"`
}

type RiskHistogram struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type Profile struct {
	User                User `json:"user"`
	CompletionPercent   int  `json:"completionPercent"`
	ShowOnboardingNudge bool `json:"showOnboardingNudge"`
}

type StudentDashboardData struct {
	Profile     *Profile             `json:"profile,omitempty"`
	Summary     ProgressSummary      `json:"summary"`
	Enrollments []EnrollmentWithRisk `json:"enrollments"`
	Warnings    []string             `json:"warnings,omitempty"`
}

type AdminDashboardData struct {
	TotalUsers         int           `json:"totalUsers"`
	UsersByRole        map[Role]int  `json:"usersByRole"`
	UnverifiedUsers    int           `json:"unverifiedUsers"`
	TotalCourses       int           `json:"totalCourses"`
	TotalEnrollments   int           `json:"totalEnrollments"`
	PendingSubmissions int           `json:"pendingSubmissions"`
	Risk               RiskHistogram `json:"risk"`
	Warnings           []string      `json:"warnings,omitempty"`
}

type SurveySummary struct {
	Count         int         `json:"count"`
	AverageRating float64     `json:"averageRating"`
	Histogram     map[int]int `json:"histogram"`
}

type BulkUserResult struct {
	Created int              `json:"created"`
	Invalid []BulkRowProblem `json:"invalid,omitempty"`
}

type BulkRowProblem struct {
	Row    int          `json:"row"`
	Errors []FieldError `json:"errors"`
}
