package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 3 * time.Second

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler builds the readiness probe from named checks. A check
// named "backend" is reported as asleep rather than down when the LMS
// backend does not answer.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(c *gin.Context) {
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		err := check(ctx)
		cancel()

		switch {
		case err == nil:
			results[name] = "ok"
		case errors.Is(err, domain.ErrBackendAsleep):
			results[name] = "asleep"
			status = http.StatusServiceUnavailable
		default:
			results[name] = "down"
			status = http.StatusServiceUnavailable
		}
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
		c.Header("Retry-After", retryAfterSeconds)
	}
	c.JSON(status, gin.H{"status": state, "checks": results})
}
