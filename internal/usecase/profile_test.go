package usecase

import (
	"context"
	"testing"

	"lms-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileCompletion(t *testing.T) {
	tests := []struct {
		name string
		user domain.User
		want int
	}{
		{"empty", domain.User{Username: "ada"}, 0},
		{"one", domain.User{Name: "Ada"}, 20},
		{"three", domain.User{Name: "Ada", PhoneNumber: "555", TechnicalUnit: "R&D"}, 60},
		{"whitespace is empty", domain.User{Name: "Ada", DateOfBirth: "  "}, 20},
		{"all", domain.User{Name: "Ada", DateOfBirth: "1815-12-10", PhoneNumber: "555", MaritalStatus: "married", TechnicalUnit: "R&D"}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileCompletion(tt.user))
		})
	}
}

func TestNewProfile_Nudge(t *testing.T) {
	complete := domain.User{Name: "Ada", DateOfBirth: "1815-12-10", PhoneNumber: "555", MaritalStatus: "married", TechnicalUnit: "R&D"}
	seenComplete := complete
	seenComplete.HasSeenOnboarding = true

	tests := []struct {
		name      string
		user      domain.User
		wantNudge bool
	}{
		{"empty", domain.User{}, true},
		{"partial and onboarding seen", domain.User{Name: "Ada", HasSeenOnboarding: true}, true},
		{"complete", complete, false},
		{"complete and onboarding seen", seenComplete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProfile(tt.user)
			assert.Equal(t, tt.wantNudge, p.ShowOnboardingNudge, "completion %d%%", p.CompletionPercent)
		})
	}
}

func TestProfileUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("get", func(t *testing.T) {
		authRepo := new(MockAuthRepository)
		authRepo.On("Me", mock.Anything, "tok-student").Return(&domain.User{ID: "u-1", Name: "Ada"}, nil).Once()

		uc := NewProfileUsecase(authRepo, new(MockUserRepository))
		p, err := uc.GetProfile(ctx, studentSession)

		require.NoError(t, err)
		assert.Equal(t, 20, p.CompletionPercent)
		assert.True(t, p.ShowOnboardingNudge)
	})

	t.Run("onboarding", func(t *testing.T) {
		seen := true
		req := domain.OnboardingRequest{HasSeenOnboarding: &seen}
		userRepo := new(MockUserRepository)
		userRepo.On("UpdateOnboarding", mock.Anything, "tok-student", "u-1", req).
			Return(&domain.User{ID: "u-1", Name: "Ada", HasSeenOnboarding: true}, nil).Once()

		uc := NewProfileUsecase(new(MockAuthRepository), userRepo)
		p, err := uc.UpdateOnboarding(ctx, studentSession, req)

		require.NoError(t, err)
		assert.True(t, p.User.HasSeenOnboarding)
		assert.Equal(t, 20, p.CompletionPercent)
		assert.True(t, p.ShowOnboardingNudge)
		userRepo.AssertExpectations(t)
	})

	t.Run("onboarding needs a flag", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		uc := NewProfileUsecase(new(MockAuthRepository), userRepo)

		_, err := uc.UpdateOnboarding(ctx, studentSession, domain.OnboardingRequest{})

		assert.ErrorIs(t, err, domain.ErrValidation)
		userRepo.AssertNotCalled(t, "UpdateOnboarding", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
