package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/subtrack/internal/apperr"
	"github.com/ayush/subtrack/internal/models"
)

// PostgresStore handles user CRUD against PostgreSQL. Username, email, and
// github_id uniqueness are enforced here by the table constraints.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			github_id    TEXT UNIQUE,
			username     VARCHAR(50)  UNIQUE NOT NULL,
			email        VARCHAR(255) UNIQUE NOT NULL,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			name         VARCHAR(255) NOT NULL DEFAULT '',
			phone        VARCHAR(50)  NOT NULL DEFAULT '',
			country      VARCHAR(100) NOT NULL DEFAULT '',
			avatar_url   TEXT         NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ  DEFAULT NOW()
		)
	`)
	return err
}

const userColumns = `id, COALESCE(github_id, ''), username, email, display_name, name, phone, country, avatar_url, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.GitHubID, &u.Username, &u.Email, &u.DisplayName,
		&u.Name, &u.Phone, &u.Country, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if notFoundRow(err) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, err
	}
	return u, nil
}

// FindByUsernameOrEmail returns (nil, nil) when no user matches. This is the
// registration pre-check; it is deliberately a separate statement from the
// insert, so two concurrent registrations can race past it. The unique
// constraints catch the loser.
func (s *PostgresStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $2`, username, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) Create(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, display_name, phone, country)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		in.Username, in.Email, in.DisplayName, in.Phone, in.Country))
	if err != nil {
		if uniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "User with this email or username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies the allow-listed profile fields. Nil pointers leave
// the stored value untouched.
func (s *PostgresStore) UpdateProfile(ctx context.Context, id string, in models.ProfileUpdateInput) (*models.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx,
		`UPDATE users SET
			name       = COALESCE($2, name),
			email      = COALESCE($3, email),
			phone      = COALESCE($4, phone),
			country    = COALESCE($5, country),
			avatar_url = COALESCE($6, avatar_url)
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, in.Name, in.Email, in.Phone, in.Country, in.Avatar))
	if err != nil {
		if notFoundRow(err) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		if uniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "User with this email or username already exists")
		}
		return nil, err
	}
	return u, nil
}

// UpsertGitHubUser creates or refreshes the row for a GitHub identity.
// Registration-time fields (phone, country) are left alone on refresh.
func (s *PostgresStore) UpsertGitHubUser(ctx context.Context, gh models.GitHubUser) (*models.User, error) {
	email := gh.Email
	if email == "" {
		// GitHub hides the address when the user opts out of a public email.
		email = gh.Login + "@users.noreply.github.com"
	}
	u, err := scanUser(s.pool.QueryRow(ctx,
		`INSERT INTO users (github_id, username, email, display_name, name, avatar_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (github_id) DO UPDATE SET
			username   = EXCLUDED.username,
			email      = EXCLUDED.email,
			name       = EXCLUDED.name,
			avatar_url = EXCLUDED.avatar_url
		 RETURNING `+userColumns,
		fmt.Sprint(gh.ID), gh.Login, email, gh.Login, gh.Name, gh.AvatarURL))
	if err != nil {
		if uniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "User with this email or username already exists")
		}
		return nil, fmt.Errorf("upsert github user: %w", err)
	}
	return u, nil
}

// uniqueViolation reports a unique-constraint violation (SQLSTATE 23505).
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// notFoundRow covers both a missing row and an id that is not a well-formed
// uuid (SQLSTATE 22P02); either way the record does not resolve.
func notFoundRow(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
