package usecase

import (
	"context"
	"testing"

	"lms-dashboard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCertificateCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{" abc-123 ", "ABC-123", true},
		{"CERT2024XYZ", "CERT2024XYZ", true},
		{"abc", "ABC", false},
		{"abc 123", "ABC 123", false},
		{"../etc/passwd", "../ETC/PASSWD", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeCertificateCode(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCertificateUsecase_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("malformed code skips backend", func(t *testing.T) {
		repo := new(MockCertificateRepository)
		_, err := NewCertificateUsecase(repo).Validate(ctx, "x")

		assert.ErrorIs(t, err, domain.ErrValidation)
		repo.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})

	t.Run("normalized code is forwarded", func(t *testing.T) {
		repo := new(MockCertificateRepository)
		repo.On("Validate", mock.Anything, "ABC-123").Return(&domain.Certificate{Code: "ABC-123", Valid: true}, nil).Once()

		cert, err := NewCertificateUsecase(repo).Validate(ctx, " abc-123")

		require.NoError(t, err)
		assert.True(t, cert.Valid)
	})

	t.Run("unknown code", func(t *testing.T) {
		repo := new(MockCertificateRepository)
		repo.On("Validate", mock.Anything, "NOPE-000").Return(nil, domain.ErrNotFound).Once()

		_, err := NewCertificateUsecase(repo).Validate(ctx, "nope-000")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
