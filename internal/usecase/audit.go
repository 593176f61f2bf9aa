package usecase

import (
	"context"
	"log/slog"
	"time"

	"lms-dashboard/internal/domain"
)

// auditor records mutating admin actions. Recording never fails the action
// itself; a nil repository turns it off.
type auditor struct {
	repo domain.AuditRepository
	now  func() time.Time
}

func newAuditor(repo domain.AuditRepository) *auditor {
	return &auditor{repo: repo, now: time.Now}
}

func (a *auditor) record(ctx context.Context, s *domain.Session, action, target string, payload map[string]interface{}, actionErr error) {
	if a == nil || a.repo == nil {
		return
	}
	event := &domain.AuditEvent{
		Action:    action,
		Target:    target,
		Payload:   payload,
		Success:   actionErr == nil,
		CreatedAt: a.now(),
	}
	if s != nil {
		event.ActorID = s.UserID
		event.ActorRole = s.Role
	}
	if actionErr != nil {
		event.Error = actionErr.Error()
	}
	if err := a.repo.Create(context.WithoutCancel(ctx), event); err != nil {
		slog.Warn("audit record failed", "action", action, "target", target, "error", err)
	}
}

func (a *auditor) recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if a == nil || a.repo == nil {
		return []domain.AuditEvent{}, nil
	}
	events, err := a.repo.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return events, nil
}
