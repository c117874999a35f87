package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/corsinf/usuarios-api/internal/retry"
	"github.com/corsinf/usuarios-api/internal/search"
	"github.com/corsinf/usuarios-api/pkg/auth"
	"github.com/corsinf/usuarios-api/pkg/sanitize"
)

// UserRepository defines the store operations the facade composes.
type UserRepository interface {
	Search(ctx context.Context, page, pageSize int, field models.SearchField, text string) ([]*models.User, error)
	Insert(ctx context.Context, user *models.User) (int, error)
	Update(ctx context.Context, user *models.User) (int64, error)
	UpdatePassword(ctx context.Context, id int, hash string) (int64, error)
	Delete(ctx context.Context, id int) (int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ResultsCache is the session-scoped projection backing get-by-id reads.
type ResultsCache interface {
	Put(ctx context.Context, sessionID string, users []*models.User) error
	Lookup(ctx context.Context, sessionID string, id int) (*models.User, error)
	InvalidateAll(ctx context.Context) error
}

// UserService is the operation set exposed to external callers. It wraps
// every store call in the retry controller, manages search sessions, and
// translates outcomes into the error taxonomy.
type UserService struct {
	repo     UserRepository
	retrier  *retry.Controller
	sessions *search.Manager
	cache    ResultsCache
	hasher   auth.Hasher
	logger   *slog.Logger
}

func NewUserService(
	repo UserRepository,
	retrier *retry.Controller,
	sessions *search.Manager,
	cache ResultsCache,
	hasher auth.Hasher,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		retrier:  retrier,
		sessions: sessions,
		cache:    cache,
		hasher:   hasher,
		logger:   logger,
	}
}

// SearchResult is the accumulated result set a search session has loaded
// so far.
type SearchResult struct {
	SessionID  string
	Records    []*models.User
	IsLastPage bool
}

// Search fetches one page into a session and returns the accumulation.
// An empty sessionID (or an expired one) starts a fresh session; changed
// criteria reset the existing one, which also makes any in-flight fetch
// for the old criteria stale.
func (s *UserService) Search(ctx context.Context, sessionID string, page, pageSize int, criteria search.Criteria) (*SearchResult, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", models.ErrValidation)
	}
	if pageSize < 0 || pageSize > 100 {
		return nil, fmt.Errorf("%w: page size out of range", models.ErrValidation)
	}

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		sess = s.sessions.Create(criteria, pageSize)
	} else if sess.Criteria() != criteria {
		sess.Reset(criteria)
	}

	gen, err := sess.StartFetch(page)
	if err != nil {
		return nil, err
	}

	var rows []*models.User
	err = s.retrier.Do(ctx, "search users", nil, func(ctx context.Context) error {
		var opErr error
		rows, opErr = s.repo.Search(ctx, page, sess.PageSize(), criteria.Field, criteria.Text)
		return opErr
	})
	if err != nil {
		sess.Abort(gen)
		s.logger.Error("search failed", slog.String("session_id", sess.ID()), slog.Any("error", err))
		return nil, err
	}

	snap, applied := sess.Complete(gen, page, rows)
	if !applied {
		s.logger.Info("discarded stale page fetch", slog.String("session_id", sess.ID()), slog.Int("page", page))
	} else if cacheErr := s.cache.Put(ctx, sess.ID(), snap.Records); cacheErr != nil {
		// The projection is best-effort; in-memory state stays authoritative.
		s.logger.Warn("failed to cache search results", slog.Any("error", cacheErr))
	}

	return &SearchResult{
		SessionID:  sess.ID(),
		Records:    snap.Records,
		IsLastPage: snap.IsLastPage,
	}, nil
}

// Add validates, de-duplicates by email, sanitizes the name fields,
// hashes the password, and inserts under retry. A taken email is
// rejected before any write and is never retried.
func (s *UserService) Add(ctx context.Context, user *models.User, password string) (int, error) {
	user.FirstNames = sanitize.Clean(user.FirstNames)
	user.LastNames = sanitize.Clean(user.LastNames)

	if err := user.Validate(); err != nil {
		return 0, err
	}
	if err := auth.ValidatePassword(password); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	var exists bool
	err := s.retrier.Do(ctx, "check email", nil, func(ctx context.Context) error {
		var opErr error
		exists, opErr = s.repo.ExistsByEmail(ctx, user.Email)
		return opErr
	})
	if err != nil {
		return 0, err
	}
	if exists {
		s.logger.Info("rejected duplicate email on add")
		return 0, models.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	var id int
	err = s.retrier.Do(ctx, "insert user", nil, func(ctx context.Context) error {
		var opErr error
		id, opErr = s.repo.Insert(ctx, user)
		return opErr
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("user created", slog.Int("user_id", id))
	return id, nil
}

// Edit updates every field except the password and the identity.
func (s *UserService) Edit(ctx context.Context, user *models.User) error {
	if user.ID <= 0 {
		return fmt.Errorf("%w: missing user id", models.ErrValidation)
	}

	user.FirstNames = sanitize.Clean(user.FirstNames)
	user.LastNames = sanitize.Clean(user.LastNames)

	if err := user.Validate(); err != nil {
		return err
	}

	var rows int64
	err := s.retrier.Do(ctx, "update user", nil, func(ctx context.Context) error {
		var opErr error
		rows, opErr = s.repo.Update(ctx, user)
		return opErr
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	s.invalidateProjections(ctx)
	s.logger.Info("user updated", slog.Int("user_id", user.ID))
	return nil
}

// ChangePassword hashes the new password and updates only that column.
func (s *UserService) ChangePassword(ctx context.Context, id int, newPassword string) error {
	if id <= 0 {
		return fmt.Errorf("%w: missing user id", models.ErrValidation)
	}
	if err := auth.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var rows int64
	err = s.retrier.Do(ctx, "update password", nil, func(ctx context.Context) error {
		var opErr error
		rows, opErr = s.repo.UpdatePassword(ctx, id, hash)
		return opErr
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	s.logger.Info("password changed", slog.Int("user_id", id))
	return nil
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: missing user id", models.ErrValidation)
	}

	var rows int64
	err := s.retrier.Do(ctx, "delete user", nil, func(ctx context.Context) error {
		var opErr error
		rows, opErr = s.repo.Delete(ctx, id)
		return opErr
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}

	s.invalidateProjections(ctx)
	s.logger.Info("user deleted", slog.Int("user_id", id))
	return nil
}

// GetByID answers from the session's accumulated results, never from the
// authoritative store. The in-process session is checked first, then the
// cached projection for sessions this instance no longer holds.
func (s *UserService) GetByID(ctx context.Context, sessionID string, id int) (*models.User, error) {
	if sess, ok := s.sessions.Get(sessionID); ok {
		if user, found := sess.Lookup(id); found {
			return user, nil
		}
		return nil, models.ErrNotFound
	}

	user, err := s.cache.Lookup(ctx, sessionID, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Warn("cache lookup failed", slog.Any("error", err))
		return nil, models.ErrNotFound
	}
	return user, nil
}

// invalidateProjections drops every cached result set after a mutation;
// any accumulated list may now contain stale rows.
func (s *UserService) invalidateProjections(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn("failed to invalidate cached results", slog.Any("error", err))
	}
}
