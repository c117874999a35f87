package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/corsinf/usuarios-api/internal/search"
	"github.com/corsinf/usuarios-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchUsers_Success(t *testing.T) {
	svc := &MockUserService{
		SearchFunc: func(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error) {
			assert.Equal(t, "", sessionID)
			assert.Equal(t, 1, page)
			assert.Equal(t, 0, pageSize)
			assert.Equal(t, models.SearchFieldName, criteria.Field)
			assert.Equal(t, "lopez", criteria.Text)
			return &services.SearchResult{
				SessionID:  "sess-1",
				Records:    []*models.User{NewTestUser(1, "maria@example.com")},
				IsLastPage: true,
			}, nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/users?q=lopez", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchUsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, "Maria Fernanda", resp.Records[0].FirstNames)
	assert.True(t, resp.IsLastPage)
}

func TestSearchUsers_PassesSessionAndPaging(t *testing.T) {
	svc := &MockUserService{
		SearchFunc: func(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error) {
			assert.Equal(t, "sess-1", sessionID)
			assert.Equal(t, 2, page)
			assert.Equal(t, 10, pageSize)
			assert.Equal(t, models.SearchFieldEmail, criteria.Field)
			return &services.SearchResult{SessionID: "sess-1", IsLastPage: true}, nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/users?page=2&page_size=10&field=email&q=maria", nil)
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchUsers_InvalidParams(t *testing.T) {
	router := newTestRouter(NewUserHandler(&MockUserService{}))

	for _, url := range []string{
		"/users?page=0",
		"/users?page=abc",
		"/users?page_size=0",
		"/users?page_size=101",
		"/users?field=phone",
	} {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "url %s", url)
	}
}

func TestSearchUsers_PaginationConflict(t *testing.T) {
	svc := &MockUserService{
		SearchFunc: func(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error) {
			return nil, models.ErrPageOutOfOrder
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/users?page=5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSearchUsers_StoreUnavailable(t *testing.T) {
	svc := &MockUserService{
		SearchFunc: func(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error) {
			return nil, models.ErrConnectionFailed
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetUser_Success(t *testing.T) {
	svc := &MockUserService{
		GetByIDFunc: func(ctx context.Context, sessionID string, id int) (*models.User, error) {
			assert.Equal(t, "sess-1", sessionID)
			assert.Equal(t, 7, id)
			return NewTestUser(7, "maria@example.com"), nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/users/7", nil)
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.ID)
	assert.Equal(t, "maria@example.com", resp.Email)
}

func TestGetUser_NotFound(t *testing.T) {
	router := newTestRouter(NewUserHandler(&MockUserService{}))

	req := httptest.NewRequest(http.MethodGet, "/users/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario no encontrado")
}

func TestGetUser_InvalidID(t *testing.T) {
	router := newTestRouter(NewUserHandler(&MockUserService{}))

	req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func validAddBody() map[string]string {
	return map[string]string{
		"nombres":   "Maria Fernanda",
		"apellidos": "Lopez",
		"email":     "maria@example.com",
		"ci_ruc":    "0912345678",
		"password":  "Passw0rd!",
	}
}

func postJSON(t *testing.T, router http.Handler, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateUser_Success(t *testing.T) {
	var added *models.User
	svc := &MockUserService{
		AddFunc: func(ctx context.Context, user *models.User, password string) (int, error) {
			added = user
			assert.Equal(t, "Passw0rd!", password)
			return 42, nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	rec := postJSON(t, router, http.MethodPost, "/users", validAddBody())

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp AddUserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.ID)
	assert.Equal(t, "Usuario agregado exitosamente", resp.Message)

	require.NotNil(t, added)
	assert.Equal(t, "maria@example.com", added.Email)
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	var added *models.User
	svc := &MockUserService{
		AddFunc: func(ctx context.Context, user *models.User, password string) (int, error) {
			added = user
			return 1, nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	body := validAddBody()
	body["email"] = "Maria@Example.COM"
	rec := postJSON(t, router, http.MethodPost, "/users", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "maria@example.com", added.Email)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc := &MockUserService{
		AddFunc: func(ctx context.Context, user *models.User, password string) (int, error) {
			return 0, models.ErrDuplicateEmail
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	rec := postJSON(t, router, http.MethodPost, "/users", validAddBody())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "El email ingresado ya existe")
}

func TestCreateUser_InvalidBody(t *testing.T) {
	router := newTestRouter(NewUserHandler(&MockUserService{}))

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUser_ValidationFailures(t *testing.T) {
	router := newTestRouter(NewUserHandler(&MockUserService{}))

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"missing first names", func(b map[string]string) { delete(b, "nombres") }},
		{"malformed email", func(b map[string]string) { b["email"] = "not-an-email" }},
		{"national id wrong length", func(b map[string]string) { b["ci_ruc"] = "12345" }},
		{"missing password", func(b map[string]string) { delete(b, "password") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validAddBody()
			tt.mutate(body)
			rec := postJSON(t, router, http.MethodPost, "/users", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateUser_Success(t *testing.T) {
	var edited *models.User
	svc := &MockUserService{
		EditFunc: func(ctx context.Context, user *models.User) error {
			edited = user
			return nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	body := validAddBody()
	delete(body, "password")
	rec := postJSON(t, router, http.MethodPut, "/users/7", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario modificado exitosamente")
	assert.Equal(t, 7, edited.ID)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc := &MockUserService{
		EditFunc: func(ctx context.Context, user *models.User) error {
			return models.ErrNotFound
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	body := validAddBody()
	delete(body, "password")
	rec := postJSON(t, router, http.MethodPut, "/users/99", body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChangePassword_Success(t *testing.T) {
	svc := &MockUserService{
		ChangePasswordFunc: func(ctx context.Context, id int, newPassword string) error {
			assert.Equal(t, 7, id)
			assert.Equal(t, "NuevoPass1!", newPassword)
			return nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	rec := postJSON(t, router, http.MethodPut, "/users/7/password", map[string]string{"password": "NuevoPass1!"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "exitosamente")
}

func TestChangePassword_WeakPassword(t *testing.T) {
	svc := &MockUserService{
		ChangePasswordFunc: func(ctx context.Context, id int, newPassword string) error {
			return models.ErrValidation
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	rec := postJSON(t, router, http.MethodPut, "/users/7/password", map[string]string{"password": "weak"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUser_Success(t *testing.T) {
	svc := &MockUserService{
		DeleteFunc: func(ctx context.Context, id int) error {
			assert.Equal(t, 7, id)
			return nil
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodDelete, "/users/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Usuario eliminado exitosamente")
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc := &MockUserService{
		DeleteFunc: func(ctx context.Context, id int) error {
			return models.ErrNotFound
		},
	}
	router := newTestRouter(NewUserHandler(svc))

	req := httptest.NewRequest(http.MethodDelete, "/users/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
