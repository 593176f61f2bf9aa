package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"lms-dashboard/internal/domain"
	"lms-dashboard/pkg/utils"

	"github.com/google/uuid"
)

type authUsecase struct {
	authRepo   domain.AuthRepository
	sessions   domain.SessionStore
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthUsecase(ar domain.AuthRepository, sessions domain.SessionStore, secret []byte, sessionTTL time.Duration) domain.AuthUsecase {
	return &authUsecase{
		authRepo:   ar,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Login signs in against the backend, stores a session holding the backend
// token and returns a gateway token pointing at it.
func (uc *authUsecase) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError(domain.FieldError{Field: "email", Message: "email and password are required"})
	}

	res, err := uc.authRepo.Login(ctx, email, password)
	if err != nil {
		// The backend answers bad credentials with 400 or 404.
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, err
	}
	if res.Token == "" || res.User.ID == "" {
		return "", nil, &domain.APIError{Method: "POST", Path: "/api/auth/login", Status: 200, Message: "login response without token", Err: domain.ErrContract}
	}

	now := uc.now()
	session := &domain.Session{
		ID:           uuid.NewString(),
		UserID:       res.User.ID,
		Role:         res.User.Role,
		BackendToken: res.Token,
		IsVerified:   res.User.IsVerified,
		CreatedAt:    now,
		ExpiresAt:    now.Add(uc.sessionTTL),
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return "", nil, err
	}

	token, err := utils.GenerateJWT(uc.secret, session.ID, session.UserID, string(session.Role), session.ExpiresAt)
	if err != nil {
		return "", nil, err
	}
	slog.Info("session created", "user_id", session.UserID, "role", session.Role)
	return token, session, nil
}

func (uc *authUsecase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a gateway token to its live session.
func (uc *authUsecase) Authenticate(ctx context.Context, gatewayToken string) (*domain.Session, error) {
	claims, err := utils.ValidateJWT(uc.secret, gatewayToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.IsZero() && uc.now().After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

func (uc *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	err := uc.authRepo.ForgotPassword(ctx, strings.TrimSpace(email))
	// Unknown addresses look like success so accounts cannot be probed.
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func (uc *authUsecase) ResetPassword(ctx context.Context, resetToken, password string) error {
	if !ValidPassword(password) {
		return domain.NewValidationError(domain.FieldError{Field: "password", Message: "must be at least 8 characters with a letter and a digit"})
	}
	return uc.authRepo.ResetPassword(ctx, strings.TrimSpace(resetToken), password)
}

func (uc *authUsecase) VerifyEmail(ctx context.Context, verifyToken string) error {
	return uc.authRepo.VerifyEmail(ctx, strings.TrimSpace(verifyToken))
}

func (uc *authUsecase) ResendVerification(ctx context.Context, email string) error {
	return uc.authRepo.ResendVerification(ctx, strings.TrimSpace(email))
}
