package handlers

import (
	"context"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/corsinf/usuarios-api/internal/search"
	"github.com/corsinf/usuarios-api/internal/services"
	"github.com/go-chi/chi/v5"
)

// MockUserService implements UserService for testing
type MockUserService struct {
	SearchFunc         func(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error)
	AddFunc            func(ctx context.Context, user *models.User, password string) (int, error)
	EditFunc           func(ctx context.Context, user *models.User) error
	ChangePasswordFunc func(ctx context.Context, id int, newPassword string) error
	DeleteFunc         func(ctx context.Context, id int) error
	GetByIDFunc        func(ctx context.Context, sessionID string, id int) (*models.User, error)
}

func (m *MockUserService) Search(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, sessionID, page, pageSize, criteria)
	}
	return &services.SearchResult{SessionID: "test-session", IsLastPage: true}, nil
}

func (m *MockUserService) Add(ctx context.Context, user *models.User, password string) (int, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, user, password)
	}
	return 1, nil
}

func (m *MockUserService) Edit(ctx context.Context, user *models.User) error {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, user)
	}
	return nil
}

func (m *MockUserService) ChangePassword(ctx context.Context, id int, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, id, newPassword)
	}
	return nil
}

func (m *MockUserService) Delete(ctx context.Context, id int) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserService) GetByID(ctx context.Context, sessionID string, id int) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, sessionID, id)
	}
	return nil, models.ErrNotFound
}

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, email, password string) (string, error)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return "test-token", nil
}

// newTestRouter mounts the user handler the way the server does, so URL
// params resolve in tests.
func newTestRouter(h *UserHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.SearchUsers)
	r.Get("/users/{id}", h.GetUser)
	r.Post("/users", h.CreateUser)
	r.Put("/users/{id}", h.UpdateUser)
	r.Put("/users/{id}/password", h.ChangePassword)
	r.Delete("/users/{id}", h.DeleteUser)
	return r
}

// NewTestUser builds a persisted user record.
func NewTestUser(id int, email string) *models.User {
	return &models.User{
		ID:         id,
		FirstNames: "Maria Fernanda",
		LastNames:  "Lopez",
		Email:      email,
		NationalID: "0912345678",
	}
}
