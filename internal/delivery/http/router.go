package http

import (
	"log/slog"

	"lms-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

func InitRouter(handler *Handler, files *FileHandler, health *HealthHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	auth := handler.AuthUsecase

	// Public Routes
	api := r.Group("/api/v1")
	{
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/forgot-password", handler.ForgotPassword)
		api.POST("/auth/reset-password", handler.ResetPassword)
		api.POST("/auth/verify-email", handler.VerifyEmail)
		api.POST("/auth/resend-verification", handler.ResendVerification)
		api.GET("/certificates/validate/:code", handler.ValidateCertificate)
	}

	// Protected Routes (Student, Instructor, Admin)
	protected := api.Group("/")
	protected.Use(AuthMiddleware(auth))
	{
		protected.POST("/auth/logout", handler.Logout)
		protected.GET("/profile", handler.GetProfile)
		protected.PATCH("/profile/onboarding", handler.UpdateOnboarding)

		protected.GET("/courses", handler.SearchCourses)
		protected.GET("/courses/:id", handler.GetCourseDetail)
		protected.POST("/courses/:id/enroll", handler.EnrollCourse)
		protected.DELETE("/courses/:id/enroll", handler.UnenrollCourse)
		protected.GET("/enrollments/my", handler.GetMyEnrollments)

		protected.POST("/submissions", handler.Submit)
		protected.GET("/submissions/my", handler.GetMySubmissions)

		protected.GET("/dashboard/student", handler.GetStudentDashboard)
	}

	api.GET("/dashboard/admin", AuthMiddleware(auth, domain.RoleAdmin), handler.GetAdminDashboard)

	// Admin Only
	admin := api.Group("/admin")
	admin.Use(AuthMiddleware(auth, domain.RoleAdmin))
	{
		// User management
		admin.GET("/users", handler.ListUsers)
		admin.PATCH("/users/:id/role", handler.ChangeUserRole)
		admin.PUT("/users/:id/quick", handler.QuickEditUser)
		admin.POST("/users/bulk", handler.BulkCreateUsers)
		admin.POST("/users/bulk/xlsx", files.ImportUsers)
		admin.GET("/users/export", handler.ExportUsers)

		// Enrollments and risk
		admin.GET("/enrollments", handler.ListEnrollments)
		admin.POST("/enrollments/bulk", handler.BulkEnroll)
		admin.DELETE("/enrollments/bulk", handler.BulkUnenroll)
		admin.POST("/enrollments/risk-snapshots", handler.CreateRiskSnapshot)
		admin.GET("/enrollments/risk-snapshots", handler.GetRiskSnapshots)

		// Logs and audit
		admin.GET("/logs", handler.ListLogs)
		admin.GET("/logs/stream", handler.StreamLogs)
		admin.GET("/logs/export", handler.ExportLogs)
		admin.GET("/audit", handler.ListAudit)

		admin.GET("/surveys", handler.ListSurveys)
		admin.GET("/exports/:id", files.DownloadExport)
	}

	// Instructor & Admin
	staff := api.Group("/admin/submissions")
	staff.Use(AuthMiddleware(auth, domain.RoleInstructor, domain.RoleAdmin))
	{
		staff.GET("", handler.ReviewSubmissions)
		staff.POST("/:id/grade", handler.GradeSubmission)
	}

	return r
}
