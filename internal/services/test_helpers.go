package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/corsinf/usuarios-api/internal/retry"
	"github.com/corsinf/usuarios-api/internal/search"
)

// MockUserRepository implements UserRepository and CredentialRepository
// for testing
type MockUserRepository struct {
	SearchFunc         func(ctx context.Context, page, pageSize int, field models.SearchField, text string) ([]*models.User, error)
	InsertFunc         func(ctx context.Context, user *models.User) (int, error)
	UpdateFunc         func(ctx context.Context, user *models.User) (int64, error)
	UpdatePasswordFunc func(ctx context.Context, id int, hash string) (int64, error)
	DeleteFunc         func(ctx context.Context, id int) (int64, error)
	ExistsByEmailFunc  func(ctx context.Context, email string) (bool, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
}

func (m *MockUserRepository) Search(ctx context.Context, page, pageSize int, field models.SearchField, text string) ([]*models.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, page, pageSize, field, text)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Insert(ctx context.Context, user *models.User) (int, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, user)
	}
	return 1, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) (int64, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return 1, nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int, hash string) (int64, error) {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, hash)
	}
	return 1, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int) (int64, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

// MockResultsCache implements ResultsCache for testing
type MockResultsCache struct {
	PutFunc           func(ctx context.Context, sessionID string, users []*models.User) error
	LookupFunc        func(ctx context.Context, sessionID string, id int) (*models.User, error)
	InvalidateAllFunc func(ctx context.Context) error

	InvalidateAllCalls int
}

func (m *MockResultsCache) Put(ctx context.Context, sessionID string, users []*models.User) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, sessionID, users)
	}
	return nil
}

func (m *MockResultsCache) Lookup(ctx context.Context, sessionID string, id int) (*models.User, error) {
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, sessionID, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockResultsCache) InvalidateAll(ctx context.Context) error {
	m.InvalidateAllCalls++
	if m.InvalidateAllFunc != nil {
		return m.InvalidateAllFunc(ctx)
	}
	return nil
}

// newTestRetrier keeps the inter-attempt delay negligible so exhaustion
// paths stay fast.
func newTestRetrier() *retry.Controller {
	return retry.New(3, time.Millisecond, slog.Default())
}

func newTestSessions() *search.Manager {
	return search.NewManager(3, time.Minute)
}

// NewTestUser builds a persisted user record.
func NewTestUser(id int, email string) *models.User {
	return &models.User{
		ID:         id,
		FirstNames: fmt.Sprintf("Nombre%d", id),
		LastNames:  fmt.Sprintf("Apellido%d", id),
		Email:      email,
		NationalID: "0912345678",
	}
}

// NewTestUserUnsaved builds a record the store has not assigned an id to.
func NewTestUserUnsaved(email string) *models.User {
	return &models.User{
		FirstNames: "Maria Fernanda",
		LastNames:  "Lopez",
		Email:      email,
		NationalID: "0912345678",
	}
}
