package domain

import (
	"time"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the roles the backend accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID                string            `json:"id"`
	Username          string            `json:"username"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Role              Role              `json:"role"`
	IsVerified        bool              `json:"isVerified"`
	LoginStreak       int               `json:"loginStreak"`
	DateOfBirth       string            `json:"dateOfBirth"`
	PhoneNumber       string            `json:"phoneNumber"`
	MaritalStatus     string            `json:"maritalStatus"`
	TechnicalUnit     string            `json:"technicalUnit"`
	Preferences       map[string]string `json:"preferences,omitempty"`
	HasSeenTour       bool              `json:"hasSeenTour"`
	HasSeenOnboarding bool              `json:"hasSeenOnboarding"`
	CreatedAt         time.Time         `json:"createdAt"`
	LastLoginAt       *time.Time        `json:"lastLoginAt,omitempty"`
}

type Course struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Categories        []string `json:"categories"`
	Level             string   `json:"level"`
	Type              string   `json:"type"`
	EstimatedDuration int      `json:"estimatedDuration"` // days
	Instructor        string   `json:"instructor"`
	Instructors       []string `json:"instructors,omitempty"`
	Objectives        []string `json:"objectives,omitempty"`
	Prerequisites     []string `json:"prerequisites,omitempty"`
	IsEnrolled        bool     `json:"isEnrolled"`
	Progress          float64  `json:"progress"`
}

// Enrollment links a user to a course. Sub-progress maps are keyed by the
// section/module/assignment/project id and hold a 0-100 percentage.
type Enrollment struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"userId"`
	User               *User              `json:"user,omitempty"`
	CourseID           string             `json:"courseId"`
	Course             *Course            `json:"course,omitempty"`
	Progress           float64            `json:"progress"`
	Completed          bool               `json:"completed"`
	EnrolledAt         time.Time          `json:"enrolledAt"`
	CompletedAt        *time.Time         `json:"completedAt,omitempty"`
	SectionProgress    map[string]float64 `json:"sectionProgress,omitempty"`
	ModuleProgress     map[string]float64 `json:"moduleProgress,omitempty"`
	AssignmentProgress map[string]float64 `json:"assignmentProgress,omitempty"`
	ProjectProgress    map[string]float64 `json:"projectProgress,omitempty"`
}

type SubmissionKind string

const (
	KindAssignment SubmissionKind = "assignment"
	KindProject    SubmissionKind = "project"
	KindQuiz       SubmissionKind = "quiz"
)

type SubmissionType string

const (
	SubmissionText SubmissionType = "text"
	SubmissionLink SubmissionType = "link"
	SubmissionFile SubmissionType = "file"
)

type Submission struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Username       string         `json:"username,omitempty"`
	CourseID       string         `json:"courseId"`
	ItemID         string         `json:"itemId"`
	Kind           SubmissionKind `json:"kind"`
	SubmissionType SubmissionType `json:"submissionType"`
	Text           string         `json:"text,omitempty"`
	Link           string         `json:"link,omitempty"`
	FileURL        string         `json:"fileUrl,omitempty"`
	Grade          *float64       `json:"grade,omitempty"`
	Feedback       string         `json:"feedback,omitempty"`
	Status         string         `json:"status"` // pending, graded
	SubmittedAt    time.Time      `json:"submittedAt"`
	GradedAt       *time.Time     `json:"gradedAt,omitempty"`
}

type SurveyResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Username  string            `json:"username,omitempty"`
	CourseID  string            `json:"courseId"`
	Rating    int               `json:"rating"` // 1-5
	Answers   map[string]string `json:"answers,omitempty"`
	Comment   string            `json:"comment"`
	CreatedAt time.Time         `json:"createdAt"`
}

type LogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Details   string    `json:"details"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

type Certificate struct {
	Code        string    `json:"code"`
	UserName    string    `json:"userName"`
	CourseTitle string    `json:"courseTitle"`
	IssuedAt    time.Time `json:"issuedAt"`
	Valid       bool      `json:"valid"`
}

// ========== GATEWAY-OWNED STATE ==========

// Session is the server side half of a dashboard login. It is created at
// login, removed at logout, and carries the backend bearer token.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Role         Role      `json:"role"`
	BackendToken string    `json:"backendToken"`
	IsVerified   bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskSnapshot - summary of a risk report run, kept for trend charts
type RiskSnapshot struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CourseID    string    `json:"courseId" gorm:"type:varchar(64);index"`
	TakenBy     string    `json:"takenBy" gorm:"type:varchar(64)"`
	Total       int       `json:"total"`
	Low         int       `json:"low"`
	Medium      int       `json:"medium"`
	High        int       `json:"high"`
	AvgProgress float64   `json:"avgProgress"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
}

// AuditEvent - stored in MongoDB, one per mutating admin action
type AuditEvent struct {
	ID        string                 `json:"id" bson:"_id,omitempty"`
	ActorID   string                 `json:"actorId" bson:"actor_id"`
	ActorRole Role                   `json:"actorRole" bson:"actor_role"`
	Action    string                 `json:"action" bson:"action"`
	Target    string                 `json:"target" bson:"target"`
	Payload   map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	Success   bool                   `json:"success" bson:"success"`
	Error     string                 `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt time.Time              `json:"createdAt" bson:"created_at"`
}

// ExportFile - metadata of an XLSX export kept in GridFS
type ExportFile struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	Kind       string    `json:"kind"` // users, logs, enrollments
	Rows       int       `json:"rows"`
	CreatedBy  string    `json:"createdBy"`
	UploadDate time.Time `json:"uploadDate"`
}
