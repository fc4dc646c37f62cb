package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, oauth_provider, refresh_token, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, user.Email, user.PasswordHash, user.OAuthProvider, user.RefreshToken, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

// UpdateRefreshToken replaces the stored refresh token for the user. At most
// one refresh token is valid per user; last writer wins on concurrent logins.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, id int64, token string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET refresh_token = ? WHERE id = ?", token, id)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	return requireRow(result)
}

// SetOAuthProvider tags the user with the OAuth provider that authenticated it.
func (r *UserRepository) SetOAuthProvider(ctx context.Context, id int64, provider string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET oauth_provider = ? WHERE id = ?", provider, id)
	if err != nil {
		return fmt.Errorf("update oauth provider: %w", err)
	}
	return requireRow(result)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, oauth_provider, refresh_token, created_at
		 FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.OAuthProvider, &user.RefreshToken, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// requireRow converts an update that matched nothing into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
