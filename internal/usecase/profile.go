package usecase

import (
	"context"
	"math"
	"strings"

	"lms-dashboard/internal/domain"
)

const profileFields = 5

// ProfileCompletion is the share of filled optional profile fields, 0-100.
func ProfileCompletion(u domain.User) int {
	filled := 0
	for _, v := range []string{u.Name, u.DateOfBirth, u.PhoneNumber, u.MaritalStatus, u.TechnicalUnit} {
		if strings.TrimSpace(v) != "" {
			filled++
		}
	}
	return int(math.Round(100 * float64(filled) / profileFields))
}

// newProfile wraps u with its completion. The nudge banner stays until the
// profile is complete.
func newProfile(u domain.User) *domain.Profile {
	completion := ProfileCompletion(u)
	return &domain.Profile{
		User:                u,
		CompletionPercent:   completion,
		ShowOnboardingNudge: completion < 100,
	}
}

type profileUsecase struct {
	authRepo domain.AuthRepository
	userRepo domain.UserRepository
}

func NewProfileUsecase(ar domain.AuthRepository, ur domain.UserRepository) domain.ProfileUsecase {
	return &profileUsecase{authRepo: ar, userRepo: ur}
}

func (uc *profileUsecase) GetProfile(ctx context.Context, s *domain.Session) (*domain.Profile, error) {
	user, err := uc.authRepo.Me(ctx, s.BackendToken)
	if err != nil {
		return nil, err
	}
	return newProfile(*user), nil
}

func (uc *profileUsecase) UpdateOnboarding(ctx context.Context, s *domain.Session, req domain.OnboardingRequest) (*domain.Profile, error) {
	if req.HasSeenTour == nil && req.HasSeenOnboarding == nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: "hasSeenOnboarding", Message: "nothing to update"})
	}
	user, err := uc.userRepo.UpdateOnboarding(ctx, s.BackendToken, s.UserID, req)
	if err != nil {
		return nil, err
	}
	return newProfile(*user), nil
}
