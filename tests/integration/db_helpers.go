package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/corsinf/usuarios-api/internal/database"
	"github.com/corsinf/usuarios-api/internal/models"
	pkgauth "github.com/corsinf/usuarios-api/pkg/auth"
)

// TestDB manages the PostgreSQL testcontainer and connection pool.
type TestDB struct {
	Container  testcontainers.Container
	ConnString string
	Pool       *pgxpool.Pool
	DB         *database.DB
}

// SetupTestDatabase starts a PostgreSQL container and applies the schema
// migrations.
func SetupTestDatabase(ctx context.Context) (*TestDB, error) {
	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("usuarios"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := database.RunMigrations(connStr); err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &TestDB{
		Container:  container,
		ConnString: connStr,
		Pool:       pool,
		DB:         &database.DB{Pool: pool},
	}, nil
}

// Teardown closes the pool and stops the container.
func (db *TestDB) Teardown(ctx context.Context) error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.Container != nil {
		return db.Container.Terminate(ctx)
	}
	return nil
}

// CleanupTables truncates the usuarios table for test isolation.
func (db *TestDB) CleanupTables(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, "TRUNCATE TABLE usuarios RESTART IDENTITY"); err != nil {
		return fmt.Errorf("failed to truncate usuarios: %w", err)
	}
	return nil
}

// SeedUser inserts a user row with the MD5 digest of password.
func SeedUser(ctx context.Context, pool *pgxpool.Pool, firstNames, lastNames, email, nationalID, password string) (*models.User, error) {
	digest, err := pkgauth.MD5Hasher{}.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO usuarios (nombres, apellidos, email, ci_ruc, password, foto_url)
		VALUES ($1, $2, $3, $4, $5, '')
		RETURNING id_usuarios
	`

	user := &models.User{
		FirstNames:   firstNames,
		LastNames:    lastNames,
		Email:        email,
		NationalID:   nationalID,
		PasswordHash: digest,
	}
	if err := pool.QueryRow(ctx, query, firstNames, lastNames, email, nationalID, digest).Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// SeedUsers inserts count users with predictable names and emails.
func SeedUsers(ctx context.Context, pool *pgxpool.Pool, count int) error {
	for i := 1; i <= count; i++ {
		_, err := SeedUser(ctx, pool,
			fmt.Sprintf("Nombre%02d", i),
			fmt.Sprintf("Apellido%02d", i),
			fmt.Sprintf("user%02d@example.com", i),
			"0912345678",
			"Passw0rd!",
		)
		if err != nil {
			return err
		}
	}
	return nil
}
