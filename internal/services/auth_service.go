package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/corsinf/usuarios-api/internal/auth"
	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/corsinf/usuarios-api/internal/retry"
	pkgauth "github.com/corsinf/usuarios-api/pkg/auth"
)

// CredentialRepository is the single read login needs.
type CredentialRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	repo    CredentialRepository
	retrier *retry.Controller
	tokens  *auth.TokenManager
	hasher  pkgauth.Hasher
	logger  *slog.Logger
}

func NewAuthService(
	repo CredentialRepository,
	retrier *retry.Controller,
	tokens *auth.TokenManager,
	hasher pkgauth.Hasher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		repo:    repo,
		retrier: retrier,
		tokens:  tokens,
		hasher:  hasher,
		logger:  logger,
	}
}

// Login checks the email/password pair against the stored digest and
// returns a signed token. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user *models.User
	err := s.retrier.Do(ctx, "load credentials", nil, func(ctx context.Context) error {
		var opErr error
		user, opErr = s.repo.GetByEmail(ctx, email)
		return opErr
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrUnauthorized
		}
		return "", err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		s.logger.Info("rejected login", slog.Int("user_id", user.ID))
		return "", models.ErrUnauthorized
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error("failed to issue token", slog.Any("error", err))
		return "", err
	}

	s.logger.Info("login succeeded", slog.Int("user_id", user.ID))
	return token, nil
}
