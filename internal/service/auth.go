package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// AuthService handles user registration and login, delegating credential
// issuance to the TokenService.
type AuthService struct {
	users      domain.UserRepository
	tokens     *TokenService
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new user account and issues its first token pair.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, *domain.TokenPair, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if len(name) > 50 {
		return nil, nil, fmt.Errorf("%w: name must be at most 50 characters", domain.ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair, replacing the
// user's stored refresh token. Unknown email and wrong password both report
// ErrInvalidCredentials so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	// OAuth-only accounts have no password to compare against.
	if user.PasswordHash == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// LoginWithOAuth signs in a user identified by an OAuth provider profile,
// creating the account on first login. Accounts created this way have an empty
// password hash; an existing password account gets tagged with the provider on
// its first OAuth login.
func (s *AuthService) LoginWithOAuth(ctx context.Context, provider, name, email string) (*domain.User, *domain.TokenPair, error) {
	if provider != domain.ProviderGoogle && provider != domain.ProviderGitHub {
		return nil, nil, fmt.Errorf("%w: unknown oauth provider %q", domain.ErrInvalidInput, provider)
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil, fmt.Errorf("%w: oauth profile has no email", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		user = &domain.User{
			Name:          strings.TrimSpace(name),
			Email:         email,
			OAuthProvider: provider,
		}
		if user.Name == "" {
			user.Name = email
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("create oauth user: %w", err)
		}
	case err != nil:
		return nil, nil, fmt.Errorf("get user: %w", err)
	case user.OAuthProvider == "":
		if err := s.users.SetOAuthProvider(ctx, user.ID, provider); err != nil {
			return nil, nil, fmt.Errorf("tag oauth provider: %w", err)
		}
		user.OAuthProvider = provider
	}

	pair, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
