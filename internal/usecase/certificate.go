package usecase

import (
	"context"
	"regexp"
	"strings"

	"lms-dashboard/internal/domain"
)

var certificateCode = regexp.MustCompile(`^[A-Z0-9-]{6,64}$`)

// NormalizeCertificateCode trims and upper-cases code and reports whether
// the result looks like a certificate code at all.
func NormalizeCertificateCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return code, certificateCode.MatchString(code)
}

// ========== CERTIFICATE USECASE ==========

type certificateUsecase struct {
	certRepo domain.CertificateRepository
}

func NewCertificateUsecase(cr domain.CertificateRepository) domain.CertificateUsecase {
	return &certificateUsecase{certRepo: cr}
}

func (uc *certificateUsecase) Validate(ctx context.Context, code string) (*domain.Certificate, error) {
	normalized, ok := NormalizeCertificateCode(code)
	if !ok {
		return nil, domain.NewValidationError(domain.FieldError{Field: "code", Message: "is not a valid certificate code"})
	}
	return uc.certRepo.Validate(ctx, normalized)
}
