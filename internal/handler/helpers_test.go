package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/handler"
	"github.com/PierreVega17/Backend-Finanzas/internal/repository/sqlite"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

const (
	testAccessSecret  = "access-secret-for-handler-tests-0123456789"
	testRefreshSecret = "refresh-secret-for-handler-tests-0123456789"
)

// testApp wires the full HTTP surface over a fresh database.
type testApp struct {
	mux    *http.ServeMux
	tokens *service.TokenService
	db     *sqlite.DB
}

func newTestApp(t *testing.T) *testApp {
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

	tokens := service.NewTokenService(db.Users(), testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
	auth := service.NewAuthService(db.Users(), tokens, 4)
	oauth := service.NewOAuthService("http://localhost:5000",
		service.OAuthCredentials{}, service.OAuthCredentials{})
	movements := service.NewMovementService(db.Movements())
	alerts := service.NewAlertService(db.Alerts(), db.Movements())
	// Generous limits so only the dedicated test trips the limiter.
	limiter := service.NewRateLimiter(100, 1000)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, tokens, oauth, movements, alerts, limiter, "http://localhost:5173")

	return &testApp{mux: mux, tokens: tokens, db: db}
}

// do performs a request against the app and decodes the JSON response body
// into out when out is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec
}

type authResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
	User         struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// register creates an account over HTTP and returns the issued credentials.
func (a *testApp) register(t *testing.T, name, email, password string) authResponse {
	t.Helper()
	var resp authResponse
	rec := a.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	}, &resp)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	return resp
}
