package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPostgresError translates driver-level failures into the error
// taxonomy the retry controller and handlers dispatch on. Connectivity
// problems map to ErrConnectionFailed, constraint conflicts to business
// errors, everything else to ErrQueryFailed with the driver message kept.
func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, models.ErrConnectionFailed) || errors.Is(err, models.ErrQueryFailed) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", models.ErrConnectionFailed, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation, only email carries one
			return models.ErrDuplicateEmail
		case "23502": // not_null_violation
			return fmt.Errorf("%w: %s", models.ErrValidation, pgErr.Message)
		}
	}

	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", models.ErrConnectionFailed, err)
	}

	return fmt.Errorf("%w: %v", models.ErrQueryFailed, err)
}
