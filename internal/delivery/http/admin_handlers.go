package http

import (
	"net/http"

	"lms-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	defaultSnapshotLimit = 30
	defaultAuditLimit    = 100
)

// ========== USER MANAGEMENT ==========

func (h *Handler) ListUsers(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.UserFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	page, err := h.UserAdminUsecase.List(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) ChangeUserRole(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	user, err := h.UserAdminUsecase.ChangeRole(c.Request.Context(), s, c.Param("id"), req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) QuickEditUser(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.QuickEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	user, err := h.UserAdminUsecase.QuickEdit(c.Request.Context(), s, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// BulkCreateUsers takes JSON rows. Row validation is done per row by the
// usecase, so only the envelope is checked here.
func (h *Handler) BulkCreateUsers(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.BulkUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	result, err := h.UserAdminUsecase.BulkCreate(c.Request.Context(), s, req.Users)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(bulkStatus(result), result)
}

func (h *Handler) ExportUsers(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.UserFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	file, err := h.UserAdminUsecase.Export(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

// bulkStatus is 201 when every row was created and 207 when some rows were
// rejected.
func bulkStatus(r *domain.BulkUserResult) int {
	if len(r.Invalid) > 0 {
		return http.StatusMultiStatus
	}
	return http.StatusCreated
}

// ========== ENROLLMENT ADMIN ==========

func (h *Handler) ListEnrollments(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.EnrollmentFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	page, hist, err := h.EnrollmentUsecase.List(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": page, "risk": hist})
}

func (h *Handler) BulkEnroll(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if err := h.EnrollmentUsecase.BulkEnroll(c.Request.Context(), s, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Users enrolled"})
}

func (h *Handler) BulkUnenroll(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.BulkEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if err := h.EnrollmentUsecase.BulkUnenroll(c.Request.Context(), s, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Users unenrolled"})
}

func (h *Handler) CreateRiskSnapshot(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	snap, err := h.EnrollmentUsecase.SnapshotRisk(c.Request.Context(), s, c.Query("course"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

func (h *Handler) GetRiskSnapshots(c *gin.Context) {
	var params domain.RiskHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultSnapshotLimit
	}
	snaps, err := h.EnrollmentUsecase.RiskHistory(c.Request.Context(), params.CourseID, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

// ========== SUBMISSION REVIEW ==========

func (h *Handler) ReviewSubmissions(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.SubmissionFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	page, err := h.SubmissionUsecase.ReviewQueue(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GradeSubmission(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	sub, err := h.SubmissionUsecase.Grade(c.Request.Context(), s, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ========== ACTIVITY LOGS ==========

func (h *Handler) ListLogs(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.LogFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	page, err := h.LogUsecase.List(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) ExportLogs(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.LogFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	file, err := h.LogUsecase.Export(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, file)
}

func (h *Handler) ListAudit(c *gin.Context) {
	var params domain.AuditParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	if params.Limit == 0 {
		params.Limit = defaultAuditLimit
	}
	events, err := h.LogUsecase.Audit(c.Request.Context(), params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ========== SURVEYS ==========

func (h *Handler) ListSurveys(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var f domain.SurveyFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	page, summary, err := h.SurveyUsecase.List(c.Request.Context(), s, f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"responses": page, "summary": summary})
}
