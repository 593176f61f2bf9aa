package usecase

import (
	"context"
	"log/slog"
	"sync"

	"lms-dashboard/internal/domain"
)

type dashboardUsecase struct {
	profiles       domain.ProfileUsecase
	enrollments    domain.EnrollmentUsecase
	userRepo       domain.UserRepository
	courseRepo     domain.CourseRepository
	submissionRepo domain.SubmissionRepository
}

func NewDashboardUsecase(
	profiles domain.ProfileUsecase,
	enrollments domain.EnrollmentUsecase,
	ur domain.UserRepository,
	cr domain.CourseRepository,
	sr domain.SubmissionRepository,
) domain.DashboardUsecase {
	return &dashboardUsecase{
		profiles:       profiles,
		enrollments:    enrollments,
		userRepo:       ur,
		courseRepo:     cr,
		submissionRepo: sr,
	}
}

// warnings collects the sections of a dashboard that could not be loaded.
type warnings struct {
	mu    sync.Mutex
	list  []string
	first error
}

func (w *warnings) add(section string, err error) {
	slog.Warn("dashboard section failed", "section", section, "error", err)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.list = append(w.list, section+" unavailable")
	if w.first == nil {
		w.first = err
	}
}

// GetStudentDashboard loads profile and enrollments in parallel. It fails
// only when both are unavailable.
func (uc *dashboardUsecase) GetStudentDashboard(ctx context.Context, s *domain.Session) (*domain.StudentDashboardData, error) {
	var (
		wg      sync.WaitGroup
		warn    warnings
		profile *domain.Profile
		list    []domain.EnrollmentWithRisk
		summary domain.ProgressSummary
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		p, err := uc.profiles.GetProfile(ctx, s)
		if err != nil {
			warn.add("profile", err)
			return
		}
		profile = p
	}()
	go func() {
		defer wg.Done()
		l, sum, err := uc.enrollments.GetMine(ctx, s)
		if err != nil {
			warn.add("enrollments", err)
			return
		}
		list, summary = l, sum
	}()
	wg.Wait()

	if len(warn.list) == 2 {
		return nil, warn.first
	}
	if list == nil {
		list = []domain.EnrollmentWithRisk{}
	}
	return &domain.StudentDashboardData{
		Profile:     profile,
		Summary:     summary,
		Enrollments: list,
		Warnings:    warn.list,
	}, nil
}

// GetAdminDashboard counts users, courses, enrollments and pending
// submissions in parallel. It fails only when every section is unavailable.
func (uc *dashboardUsecase) GetAdminDashboard(ctx context.Context, s *domain.Session) (*domain.AdminDashboardData, error) {
	var (
		wg   sync.WaitGroup
		warn warnings
		data = &domain.AdminDashboardData{UsersByRole: map[domain.Role]int{}}
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		users, err := uc.userRepo.GetAll(ctx, s.BackendToken)
		if err != nil {
			warn.add("users", err)
			return
		}
		data.TotalUsers = len(users)
		for _, u := range users {
			data.UsersByRole[u.Role]++
			if !u.IsVerified {
				data.UnverifiedUsers++
			}
		}
	}()
	go func() {
		defer wg.Done()
		courses, err := uc.courseRepo.GetAll(ctx, s.BackendToken)
		if err != nil {
			warn.add("courses", err)
			return
		}
		data.TotalCourses = len(courses)
	}()
	go func() {
		defer wg.Done()
		page, hist, err := uc.enrollments.List(ctx, s, domain.EnrollmentFilter{})
		if err != nil {
			warn.add("enrollments", err)
			return
		}
		data.TotalEnrollments = page.Total
		data.Risk = hist
	}()
	go func() {
		defer wg.Done()
		subs, err := uc.submissionRepo.GetAll(ctx, s.BackendToken)
		if err != nil {
			warn.add("submissions", err)
			return
		}
		for _, sub := range subs {
			if sub.Status == "" || sub.Status == "pending" {
				data.PendingSubmissions++
			}
		}
	}()
	wg.Wait()

	if len(warn.list) == 4 {
		return nil, warn.first
	}
	data.Warnings = warn.list
	return data, nil
}
