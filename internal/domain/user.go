package domain

import (
	"context"
	"time"
)

// OAuth provider tags. Empty means the account was created with a password.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// User represents a registered user of the application. PasswordHash is empty
// for accounts created through an OAuth provider. RefreshToken holds the single
// currently valid refresh token; a new login replaces it.
type User struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	OAuthProvider string
	RefreshToken  string
	CreatedAt     time.Time
}

// Principal is the authenticated identity attached to a request after token
// validation. It never carries the password hash or the stored refresh token.
type Principal struct {
	ID            int64
	Name          string
	Email         string
	OAuthProvider string
	CreatedAt     time.Time
}

// Principal strips the sensitive fields from a user.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt,
	}
}

// TokenPair is the credential set issued at registration and login. ExpiresIn
// is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateRefreshToken(ctx context.Context, id int64, token string) error
	SetOAuthProvider(ctx context.Context, id int64, provider string) error
}
