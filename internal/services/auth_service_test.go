package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/corsinf/usuarios-api/internal/auth"
	"github.com/corsinf/usuarios-api/internal/models"
	pkgauth "github.com/corsinf/usuarios-api/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(repo *MockUserRepository) (*AuthService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret-0123456789", time.Hour)
	svc := NewAuthService(repo, newTestRetrier(), tokens, pkgauth.MD5Hasher{}, slog.Default())
	return svc, tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	digest, err := pkgauth.MD5Hasher{}.Hash("Passw0rd!")
	require.NoError(t, err)

	user := NewTestUser(7, "maria@example.com")
	user.PasswordHash = digest

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			assert.Equal(t, "maria@example.com", email)
			return user, nil
		},
	}
	svc, tokens := newTestAuthService(repo)

	token, err := svc.Login(context.Background(), "maria@example.com", "Passw0rd!")

	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	digest, _ := pkgauth.MD5Hasher{}.Hash("Passw0rd!")
	user := NewTestUser(7, "maria@example.com")
	user.PasswordHash = digest

	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "maria@example.com", "wrong-password")

	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
	}
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "nobody@example.com", "Passw0rd!")

	// Unknown email and wrong password look the same to the caller.
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_Login_StoreUnavailable(t *testing.T) {
	calls := 0
	repo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			calls++
			return nil, models.ErrConnectionFailed
		},
	}
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "maria@example.com", "Passw0rd!")

	assert.ErrorIs(t, err, models.ErrConnectionFailed)
	assert.Equal(t, 3, calls)
}
