package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"lms-dashboard/internal/domain"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
)

const streamWriteTimeout = 5 * time.Second

// streamFrame is one websocket message of the live log feed.
type streamFrame struct {
	Type  string           `json:"type"` // log, status
	Entry *domain.LogEntry `json:"entry,omitempty"`
	State string           `json:"state,omitempty"` // backend_asleep, backend_error
}

// StreamLogs upgrades to a websocket and pushes activity log entries newer
// than the last one sent. The optional since query parameter (RFC 3339)
// replays entries after that time first.
func (h *Handler) StreamLogs(c *gin.Context) {
	s := mustSession(c)
	if s == nil {
		return
	}

	last := time.Now()
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC 3339 timestamp"})
			return
		}
		last = t
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("log stream upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// Clients never send; CloseRead handles their close frames and cancels
	// ctx when they go away.
	ctx := conn.CloseRead(c.Request.Context())
	slog.Info("log stream opened", "user_id", s.UserID)

	interval := h.StreamInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	poll := func() error {
		entries, err := h.LogUsecase.Since(ctx, s, last)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			state := "backend_error"
			if errors.Is(err, domain.ErrBackendAsleep) {
				state = "backend_asleep"
			}
			slog.Warn("log stream poll failed", "user_id", s.UserID, "error", err)
			return writeFrame(ctx, conn, streamFrame{Type: "status", State: state})
		}
		for i := range entries {
			if err := writeFrame(ctx, conn, streamFrame{Type: "log", Entry: &entries[i]}); err != nil {
				return err
			}
			if entries[i].CreatedAt.After(last) {
				last = entries[i].CreatedAt
			}
		}
		return nil
	}

	if err := poll(); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			slog.Info("log stream closed", "user_id", s.UserID)
			return
		case <-ticker.C:
			if err := poll(); err != nil {
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, frame streamFrame) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, frame)
}
