package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/corsinf/usuarios-api/internal/search"
	"github.com/corsinf/usuarios-api/internal/services"
	pkghttp "github.com/corsinf/usuarios-api/pkg/http"
	"github.com/go-chi/chi/v5"
)

// SessionHeader carries the search session id between successive page
// fetches of the same listing.
const SessionHeader = "X-Search-Session"

// UserService defines the facade operations the HTTP layer exposes.
type UserService interface {
	Search(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*services.SearchResult, error)
	Add(ctx context.Context, user *models.User, password string) (int, error)
	Edit(ctx context.Context, user *models.User) error
	ChangePassword(ctx context.Context, id int, newPassword string) error
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, sessionID string, id int) (*models.User, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Request/Response DTOs

type AddUserRequest struct {
	FirstNames string `json:"nombres" validate:"required,min=1,max=100"`
	LastNames  string `json:"apellidos" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,emailfmt"`
	NationalID string `json:"ci_ruc" validate:"required,nationalid"`
	Password   string `json:"password" validate:"required"`
	PhotoURL   string `json:"foto_url" validate:"omitempty,max=500"`
}

type EditUserRequest struct {
	FirstNames string `json:"nombres" validate:"required,min=1,max=100"`
	LastNames  string `json:"apellidos" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,emailfmt"`
	NationalID string `json:"ci_ruc" validate:"required,nationalid"`
	PhotoURL   string `json:"foto_url" validate:"omitempty,max=500"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID         int    `json:"id"`
	FirstNames string `json:"nombres"`
	LastNames  string `json:"apellidos"`
	Email      string `json:"email"`
	NationalID string `json:"ci_ruc"`
	PhotoURL   string `json:"foto_url,omitempty"`
}

type SearchUsersResponse struct {
	SessionID  string          `json:"session_id"`
	Records    []*UserResponse `json:"records"`
	IsLastPage bool            `json:"is_last_page"`
}

type AddUserResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

func userModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		FirstNames: user.FirstNames,
		LastNames:  user.LastNames,
		Email:      user.Email,
		NationalID: user.NationalID,
		PhotoURL:   user.PhotoURL,
	}
}

// SearchUsers serves GET /users: one page fetch into the caller's search
// session, returning the accumulated result set. Pagination state lives
// server-side; the client only passes the session header back.
func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	page := 1
	pageSize := 0 // server default

	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			pkghttp.WriteBadRequest(w, "invalid page parameter")
			return
		}
		page = n
	}

	if ps := r.URL.Query().Get("page_size"); ps != "" {
		n, err := strconv.Atoi(ps)
		if err != nil || n < 1 || n > 100 {
			pkghttp.WriteBadRequest(w, "invalid page_size parameter")
			return
		}
		pageSize = n
	}

	field, err := models.ParseSearchField(r.URL.Query().Get("field"))
	if err != nil {
		pkghttp.WriteBadRequest(w, "invalid field parameter")
		return
	}

	criteria := search.Criteria{
		Field: field,
		Text:  strings.TrimSpace(r.URL.Query().Get("q")),
	}

	result, err := h.service.Search(r.Context(), r.Header.Get(SessionHeader), page, pageSize, criteria)
	if err != nil {
		pkghttp.WriteModelError(w, err)
		return
	}

	resp := &SearchUsersResponse{
		SessionID:  result.SessionID,
		Records:    make([]*UserResponse, len(result.Records)),
		IsLastPage: result.IsLastPage,
	}
	for i, user := range result.Records {
		resp.Records[i] = userModelToResponse(user)
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

// GetUser serves GET /users/{id} from the session's accumulated results,
// not the store.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetByID(r.Context(), r.Header.Get(SessionHeader), id)
	if err != nil {
		pkghttp.WriteModelError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// CreateUser serves POST /users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req AddUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user := &models.User{
		FirstNames: req.FirstNames,
		LastNames:  req.LastNames,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		NationalID: req.NationalID,
		PhotoURL:   req.PhotoURL,
	}

	id, err := h.service.Add(r.Context(), user, req.Password)
	if err != nil {
		pkghttp.WriteModelError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, AddUserResponse{ID: id, Message: models.MsgUserAdded})
}

// UpdateUser serves PUT /users/{id}: every field except the password.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req EditUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	user := &models.User{
		ID:         id,
		FirstNames: req.FirstNames,
		LastNames:  req.LastNames,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		NationalID: req.NationalID,
		PhotoURL:   req.PhotoURL,
	}

	if err := h.service.Edit(r.Context(), user); err != nil {
		pkghttp.WriteModelError(w, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, models.MsgUserUpdated)
}

// ChangePassword serves PUT /users/{id}/password.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), id, req.Password); err != nil {
		pkghttp.WriteModelError(w, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, models.MsgPasswordChanged)
}

// DeleteUser serves DELETE /users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		pkghttp.WriteModelError(w, err)
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, models.MsgUserDeleted)
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		pkghttp.WriteBadRequest(w, "invalid user id")
		return 0, false
	}
	return id, true
}
