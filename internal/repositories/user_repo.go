package repositories

import (
	"context"
	"fmt"

	"github.com/corsinf/usuarios-api/internal/database"
	"github.com/corsinf/usuarios-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository owns the USUARIOS table. Every operation acquires its own
// connection from the pool and releases it on every exit path; nothing is
// shared across concurrent operations.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// userColumns excludes the password column: read paths that don't need
// the digest never load it.
const userColumns = `id_usuarios, nombres, apellidos, email, ci_ruc, COALESCE(foto_url, '')`

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.FirstNames, &user.LastNames,
		&user.Email, &user.NationalID, &user.PhotoURL,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return users, nil
}

func (r *UserRepository) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrConnectionFailed, err)
	}
	return conn, nil
}

// Search returns one page of users matching the field/text filter, ordered
// by id ascending. Empty text means no predicate; a name search ORs over
// nombres and apellidos. User text is always bound as a parameter.
func (r *UserRepository) Search(ctx context.Context, page, pageSize int, field models.SearchField, text string) ([]*models.User, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `SELECT ` + userColumns + ` FROM usuarios`
	args := []interface{}{}

	if text != "" {
		pattern := "%" + text + "%"
		switch field {
		case models.SearchFieldName:
			query += ` WHERE nombres LIKE $1 OR apellidos LIKE $1`
		case models.SearchFieldNationalID:
			query += ` WHERE ci_ruc LIKE $1`
		case models.SearchFieldEmail:
			query += ` WHERE email LIKE $1`
		default:
			return nil, fmt.Errorf("%w: unknown search field %q", models.ErrValidation, field)
		}
		args = append(args, pattern)
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(` ORDER BY id_usuarios ASC OFFSET $%d LIMIT $%d`, len(args)+1, len(args)+2)
	args = append(args, offset, pageSize)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return scanUserRows(rows)
}

// Insert persists a new user and returns the identity the store assigned.
func (r *UserRepository) Insert(ctx context.Context, user *models.User) (int, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	query := `
		INSERT INTO usuarios (nombres, apellidos, email, ci_ruc, password, foto_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_usuarios
	`

	var id int
	err = conn.QueryRow(ctx, query,
		user.FirstNames, user.LastNames, user.Email,
		user.NationalID, user.PasswordHash, user.PhotoURL,
	).Scan(&id)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return id, nil
}

// Update rewrites every mutable field except the password. The identity is
// immutable and the password changes only through UpdatePassword.
func (r *UserRepository) Update(ctx context.Context, user *models.User) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	query := `
		UPDATE usuarios
		SET nombres = $1, apellidos = $2, email = $3, ci_ruc = $4, foto_url = $5
		WHERE id_usuarios = $6
	`

	tag, err := conn.Exec(ctx, query,
		user.FirstNames, user.LastNames, user.Email,
		user.NationalID, user.PhotoURL, user.ID,
	)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `UPDATE usuarios SET password = $1 WHERE id_usuarios = $2`, hash, id)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) (int64, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM usuarios WHERE id_usuarios = $1`, id)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, database.MapPostgresError(err)
	}

	return exists, nil
}

// GetByEmail loads a user including the stored password digest. Login is
// its only caller.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `SELECT ` + userColumns + `, password FROM usuarios WHERE email = $1`

	var user models.User
	err = conn.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.FirstNames, &user.LastNames,
		&user.Email, &user.NationalID, &user.PhotoURL,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}
