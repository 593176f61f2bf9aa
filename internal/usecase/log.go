package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/query"
)

type logUsecase struct {
	logRepo    domain.LogRepository
	exportRepo domain.ExportRepository
	audit      *auditor
	pageSize   int
	now        func() time.Time
}

func NewLogUsecase(lr domain.LogRepository, exports domain.ExportRepository, audit domain.AuditRepository, pageSize int) domain.LogUsecase {
	return &logUsecase{
		logRepo:    lr,
		exportRepo: exports,
		audit:      newAuditor(audit),
		pageSize:   pageSize,
		now:        time.Now,
	}
}

var logSorts = map[string]query.Comparator[domain.LogEntry]{
	"createdAt": query.ByTime(func(l domain.LogEntry) time.Time { return l.CreatedAt }),
	"username":  query.ByString(func(l domain.LogEntry) string { return l.Username }),
	"action":    query.ByString(func(l domain.LogEntry) string { return l.Action }),
	"resource":  query.ByString(func(l domain.LogEntry) string { return l.Resource }),
}

func logPredicate(f domain.LogFilter) func(domain.LogEntry) bool {
	return query.And(
		func(l domain.LogEntry) bool {
			return query.MatchAny(f.Query, l.Username, l.Action, l.Resource, l.Details, l.IP)
		},
		func(l domain.LogEntry) bool { return f.Action == "" || strings.EqualFold(l.Action, f.Action) },
	)
}

func (uc *logUsecase) List(ctx context.Context, s *domain.Session, f domain.LogFilter) (query.Page[domain.LogEntry], error) {
	entries, err := uc.logRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return query.Page[domain.LogEntry]{}, err
	}
	return query.Collection(entries, query.Options[domain.LogEntry]{
		Predicate: logPredicate(f),
		Compare:   query.Sorter(query.ParseSort(f.Sort), logSorts),
		Page:      f.Page,
		PageSize:  pageSizeOr(f.PageSize, uc.pageSize),
	}), nil
}

// Since returns entries created strictly after after, oldest first.
func (uc *logUsecase) Since(ctx context.Context, s *domain.Session, after time.Time) ([]domain.LogEntry, error) {
	entries, err := uc.logRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LogEntry, 0)
	for _, e := range entries {
		if e.CreatedAt.After(after) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.LogEntry) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

var logExportHeader = []string{"Time", "Username", "Action", "Resource", "Details", "IP"}

func (uc *logUsecase) Export(ctx context.Context, s *domain.Session, f domain.LogFilter) (*domain.ExportFile, error) {
	entries, err := uc.logRepo.GetAll(ctx, s.BackendToken)
	if err != nil {
		return nil, err
	}
	all := query.Collection(entries, query.Options[domain.LogEntry]{
		Predicate: logPredicate(f),
		Compare:   query.Sorter(query.ParseSort(f.Sort), logSorts),
		PageSize:  max(len(entries), 1),
	})

	rows := make([][]interface{}, len(all.Items))
	for i, l := range all.Items {
		rows[i] = []interface{}{formatTime(l.CreatedAt), l.Username, l.Action, l.Resource, l.Details, l.IP}
	}
	buf, err := writeWorkbook(logExportHeader, rows)
	if err != nil {
		return nil, err
	}
	file, err := storeExport(ctx, uc.exportRepo, s, "logs", len(rows), buf, uc.now())
	uc.audit.record(ctx, s, "log.export", "", map[string]interface{}{"rows": len(rows)}, err)
	return file, err
}

func (uc *logUsecase) Audit(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	return uc.audit.recent(ctx, limit)
}
