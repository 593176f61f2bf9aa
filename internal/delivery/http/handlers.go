package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	AuthUsecase       domain.AuthUsecase
	CatalogUsecase    domain.CatalogUsecase
	EnrollmentUsecase domain.EnrollmentUsecase
	SubmissionUsecase domain.SubmissionUsecase
	UserAdminUsecase  domain.UserAdminUsecase
	LogUsecase        domain.LogUsecase
	SurveyUsecase     domain.SurveyUsecase
	CertUsecase       domain.CertificateUsecase
	ProfileUsecase    domain.ProfileUsecase
	DashboardUsecase  domain.DashboardUsecase

	// StreamInterval is how often the live log feed polls the backend.
	StreamInterval time.Duration
}

func NewHandler(
	au domain.AuthUsecase,
	cu domain.CatalogUsecase,
	eu domain.EnrollmentUsecase,
	su domain.SubmissionUsecase,
	uau domain.UserAdminUsecase,
	lu domain.LogUsecase,
	svu domain.SurveyUsecase,
	certu domain.CertificateUsecase,
	pu domain.ProfileUsecase,
	du domain.DashboardUsecase,
) *Handler {
	return &Handler{
		AuthUsecase:       au,
		CatalogUsecase:    cu,
		EnrollmentUsecase: eu,
		SubmissionUsecase: su,
		UserAdminUsecase:  uau,
		LogUsecase:        lu,
		SurveyUsecase:     svu,
		CertUsecase:       certu,
		ProfileUsecase:    pu,
		DashboardUsecase:  du,
		StreamInterval:    5 * time.Second,
	}
}

// ========== UTILITY FUNCTIONS ==========

func formatValidationErrors(err error) gin.H {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		errors := make(map[string]string)
		for _, f := range ve {
			errors[f.Field()] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", f.Field(), f.Tag())
		}
		return gin.H{"error": "Validation failed", "details": errors}
	}
	return gin.H{"error": "Invalid request: " + err.Error()}
}

func getSession(c *gin.Context) (*domain.Session, error) {
	s, exists := c.Get(sessionKey)
	if !exists {
		return nil, errors.New("session not found in context")
	}
	return s.(*domain.Session), nil
}

// mustSession returns the request session or writes 401 and returns nil.
func mustSession(c *gin.Context) *domain.Session {
	s, err := getSession(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return nil
	}
	return s
}

// ========== AUTH HANDLERS ==========

func (h *Handler) Login(c *gin.Context) {
	var creds domain.LoginRequest
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}

	token, session, err := h.AuthUsecase.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expiresAt":  session.ExpiresAt,
		"role":       session.Role,
		"isVerified": session.IsVerified,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	if err := h.AuthUsecase.Logout(c.Request.Context(), s.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req domain.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if err := h.AuthUsecase.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a password reset link has been sent."})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if err := h.AuthUsecase.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	var req domain.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if err := h.AuthUsecase.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified"})
}

func (h *Handler) ResendVerification(c *gin.Context) {
	var req domain.ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if err := h.AuthUsecase.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// ========== PROFILE HANDLERS ==========

func (h *Handler) GetProfile(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	profile, err := h.ProfileUsecase.GetProfile(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateOnboarding(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	profile, err := h.ProfileUsecase.UpdateOnboarding(c.Request.Context(), s, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ========== DASHBOARD HANDLERS ==========

func (h *Handler) GetStudentDashboard(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	data, err := h.DashboardUsecase.GetStudentDashboard(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) GetAdminDashboard(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	data, err := h.DashboardUsecase.GetAdminDashboard(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}
