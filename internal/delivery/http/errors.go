package http

import (
	"errors"
	"log/slog"
	"net/http"

	"lms-dashboard/internal/domain"

	"github.com/gin-gonic/gin"
)

// retryAfterSeconds is how long dashboards wait before retrying a sleeping
// backend. Free-tier hosts usually wake within half a minute.
const retryAfterSeconds = "30"

// respondError writes the JSON error for err. It is the only place that maps
// domain errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		details := make(map[string]string, len(verr.Fields))
		for _, f := range verr.Fields {
			details[f.Field] = f.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": details})
		return
	}

	var apiErr *domain.APIError
	message := ""
	if errors.As(err, &apiErr) {
		message = apiErr.Message
	}

	switch {
	case errors.Is(err, domain.ErrBackendAsleep):
		slog.Warn("backend asleep", "path", c.FullPath(), "error", err)
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "The server is waking up, please try again in a few seconds",
			"code":  "backend_asleep",
		})
	case errors.Is(err, domain.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again", "code": "session_expired"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": orDefault(message, "Unauthorized")})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": orDefault(message, "Forbidden access")})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": orDefault(message, "Not found")})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": orDefault(message, "Invalid request")})
	case errors.Is(err, domain.ErrContract):
		slog.Error("backend contract violation", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Unexpected response from the server", "code": "contract"})
	case errors.Is(err, domain.ErrBackendUnavailable):
		slog.Error("backend unavailable", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": orDefault(message, "The server is unavailable"), "code": "backend_unavailable"})
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
