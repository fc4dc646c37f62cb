package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

func TestAuthService_Register(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	user, pair, err := auth.Register(ctx, "Ana", "Ana@X.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "ana@x.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Fatal("expected password to be hashed")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a token pair at registration")
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@b.com", "secret1"},
		{"long name", strings.Repeat("a", 51), "a@b.com", "secret1"},
		{"bad email", "Ana", "not-an-email", "secret1"},
		{"short password", "Ana", "a@b.com", "12345"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := auth.Register(ctx, tc.userName, tc.email, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	registerTestUser(t, auth, "dup@example.com")

	_, _, err := auth.Register(ctx, "Other", "DUP@example.com", "secret2")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	auth, tokens, _ := newTestAuth(t)
	ctx := context.Background()

	created, _ := registerTestUser(t, auth, "login@example.com")

	user, pair, err := auth.Login(ctx, "login@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected user id %d, got %d", created.ID, user.ID)
	}

	principal, err := tokens.ValidateAccess(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if principal.ID != created.ID {
		t.Fatalf("expected principal id %d, got %d", created.ID, principal.ID)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	registerTestUser(t, auth, "creds@example.com")

	// Wrong password and unknown email look identical to the caller.
	_, _, err := auth.Login(ctx, "creds@example.com", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	_, _, err = auth.Login(ctx, "nobody@example.com", "secret1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_LoginWithOAuth_CreatesUser(t *testing.T) {
	auth, tokens, db := newTestAuth(t)
	ctx := context.Background()

	user, pair, err := auth.LoginWithOAuth(ctx, domain.ProviderGitHub, "Octo Cat", "octo@example.com")
	if err != nil {
		t.Fatalf("LoginWithOAuth: %v", err)
	}

	if user.OAuthProvider != domain.ProviderGitHub {
		t.Fatalf("expected provider github, got %q", user.OAuthProvider)
	}
	if user.PasswordHash != "" {
		t.Fatal("expected OAuth-only account to have no password hash")
	}
	if _, err := tokens.ValidateAccess(ctx, pair.AccessToken); err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}

	// Password login is impossible for an OAuth-only account, with the same
	// generic error.
	_, _, err = auth.Login(ctx, "octo@example.com", "")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	stored, err := db.Users().GetByEmail(ctx, "octo@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if stored.RefreshToken != pair.RefreshToken {
		t.Fatal("expected refresh token to be stored on the user")
	}
}

func TestAuthService_LoginWithOAuth_TagsExistingUser(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	registerTestUser(t, auth, "both@example.com")

	user, _, err := auth.LoginWithOAuth(ctx, domain.ProviderGoogle, "Both Worlds", "both@example.com")
	if err != nil {
		t.Fatalf("LoginWithOAuth: %v", err)
	}
	if user.OAuthProvider != domain.ProviderGoogle {
		t.Fatalf("expected existing user to be tagged with google, got %q", user.OAuthProvider)
	}

	// The password still works after linking.
	if _, _, err := auth.Login(ctx, "both@example.com", "secret1"); err != nil {
		t.Fatalf("Login after OAuth link: %v", err)
	}
}

func TestAuthService_LoginWithOAuth_UnknownProvider(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	_, _, err := auth.LoginWithOAuth(context.Background(), "gitlab", "Name", "x@example.com")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
