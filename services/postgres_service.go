package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"allai/models"
)

// PostgresUserStore keeps users in a "users" table.
type PostgresUserStore struct {
	db *sql.DB
}

// NewPostgresUserStore opens and pings the database.
func NewPostgresUserStore(ctx context.Context, postgresURI string) (*PostgresUserStore, error) {
	connStr := postgresURI
	if !strings.Contains(postgresURI, "sslmode=") {
		if strings.Contains(postgresURI, "?") {
			connStr += "&sslmode=disable"
		} else if strings.Contains(postgresURI, "://") {
			connStr += "?sslmode=disable"
		} else {
			connStr += " sslmode=disable"
		}
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresUserStore{db: db}, nil
}

func (s *PostgresUserStore) Close() error {
	return s.db.Close()
}

func (s *PostgresUserStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id            TEXT PRIMARY KEY,
            email         TEXT NOT NULL UNIQUE,
            name          TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            userclass     TEXT NOT NULL DEFAULT 'basic',
            created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func (s *PostgresUserStore) Create(ctx context.Context, user models.User) error {
	query := `
        INSERT INTO users (id, email, name, password_hash, userclass, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email) DO NOTHING
    `
	res, err := s.db.ExecContext(ctx, query,
		user.ID, NormalizeEmail(user.Email), user.Name, user.PasswordHash, user.UserClass, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	if n == 0 {
		return ErrEmailTaken
	}
	return nil
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
        SELECT id, email, name, password_hash, userclass, created_at
        FROM users
        WHERE email = $1
    `, NormalizeEmail(email)).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.UserClass,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}
