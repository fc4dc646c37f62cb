package service_test

import (
	"errors"
	"testing"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

func TestOAuthService_Enabled(t *testing.T) {
	svc := service.NewOAuthService("http://localhost:5000",
		service.OAuthCredentials{ClientID: "gh-id", ClientSecret: "gh-secret"},
		service.OAuthCredentials{})

	if !svc.Enabled(domain.ProviderGitHub) {
		t.Fatal("expected github to be enabled")
	}
	if svc.Enabled(domain.ProviderGoogle) {
		t.Fatal("expected google to be disabled without credentials")
	}
}

func TestOAuthService_AuthCodeURL(t *testing.T) {
	svc := service.NewOAuthService("http://localhost:5000",
		service.OAuthCredentials{ClientID: "gh-id", ClientSecret: "gh-secret"},
		service.OAuthCredentials{})

	url, err := svc.AuthCodeURL(domain.ProviderGitHub, "state-123")
	if err != nil {
		t.Fatalf("AuthCodeURL: %v", err)
	}
	if url == "" {
		t.Fatal("expected a consent URL")
	}

	if _, err := svc.AuthCodeURL(domain.ProviderGoogle, "state-123"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for disabled provider, got %v", err)
	}
}

func TestGenerateState(t *testing.T) {
	a, err := service.GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}
	b, err := service.GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}
	if a == "" || a == b {
		t.Fatal("expected distinct non-empty state values")
	}
}
