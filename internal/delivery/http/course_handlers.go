package http

import (
	"net/http"

	"lms-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

// ========== CATALOG HANDLERS ==========

func (h *Handler) SearchCourses(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var params domain.SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	page, err := h.CatalogUsecase.Search(c.Request.Context(), s, params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetCourseDetail(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	course, err := h.CatalogUsecase.GetCourse(c.Request.Context(), s, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// ========== ENROLLMENT HANDLERS ==========

func (h *Handler) EnrollCourse(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	if err := h.EnrollmentUsecase.Enroll(c.Request.Context(), s, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully enrolled in course"})
}

func (h *Handler) UnenrollCourse(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	if err := h.EnrollmentUsecase.Unenroll(c.Request.Context(), s, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully left course"})
}

func (h *Handler) GetMyEnrollments(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	enrollments, summary, err := h.EnrollmentUsecase.GetMine(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"summary":     summary,
	})
}

// ========== SUBMISSION HANDLERS ==========

func (h *Handler) Submit(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	var req domain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, formatValidationErrors(err))
		return
	}
	sub, err := h.SubmissionUsecase.Submit(c.Request.Context(), s, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) GetMySubmissions(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}
	subs, err := h.SubmissionUsecase.GetMine(c.Request.Context(), s)
	if err != nil {
		respondError(c, err)
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}

// ========== CERTIFICATE HANDLERS ==========

// ValidateCertificate is public: anyone holding a code may check it.
func (h *Handler) ValidateCertificate(c *gin.Context) {
	cert, err := h.CertUsecase.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}
