package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
	"github.com/PierreVega17/Backend-Finanzas/internal/repository/sqlite"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

const (
	testAccessSecret  = "access-secret-for-unit-tests-0123456789"
	testRefreshSecret = "refresh-secret-for-unit-tests-0123456789"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTokenService(db *sqlite.DB, accessTTL time.Duration) *service.TokenService {
	return service.NewTokenService(db.Users(), testAccessSecret, testRefreshSecret, accessTTL, 7*24*time.Hour)
}

// newTestAuth wires an AuthService over a fresh database. Bcrypt cost 4 keeps
// the tests fast.
func newTestAuth(t *testing.T) (*service.AuthService, *service.TokenService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	tokens := newTokenService(db, 15*time.Minute)
	return service.NewAuthService(db.Users(), tokens, 4), tokens, db
}

func registerTestUser(t *testing.T, auth *service.AuthService, email string) (*domain.User, *domain.TokenPair) {
	t.Helper()
	user, pair, err := auth.Register(context.Background(), "Test User", email, "secret1")
	if err != nil {
		t.Fatalf("Register %s: %v", email, err)
	}
	return user, pair
}
