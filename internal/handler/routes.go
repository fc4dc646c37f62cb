package handler

import (
	"net/http"

	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Movement and alert
// routes require a Bearer access token; the auth endpoints are rate limited
// per client IP.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	tokens *service.TokenService,
	oauth *service.OAuthService,
	movements *service.MovementService,
	alerts *service.AlertService,
	limiter *service.RateLimiter,
	frontendURL string,
) {
	authHandler := NewAuthHandler(auth, tokens)
	oauthHandler := NewOAuthHandler(oauth, auth, frontendURL)
	movementHandler := NewMovementHandler(movements)
	alertHandler := NewAlertHandler(alerts)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimit(limiter, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(tokens, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /api/auth/register", limited(authHandler.HandleRegister))
	mux.Handle("POST /api/auth/login", limited(authHandler.HandleLogin))
	mux.Handle("POST /api/auth/refresh-token", limited(authHandler.HandleRefreshToken))
	mux.Handle("GET /api/auth/me", protected(authHandler.HandleMe))

	mux.HandleFunc("GET /api/oauth/{provider}", oauthHandler.HandleStart)
	mux.HandleFunc("GET /api/oauth/{provider}/callback", oauthHandler.HandleCallback)

	mux.Handle("GET /api/movements", protected(movementHandler.HandleList))
	mux.Handle("POST /api/movements", protected(movementHandler.HandleCreate))
	mux.Handle("PUT /api/movements/{id}", protected(movementHandler.HandleUpdate))
	mux.Handle("DELETE /api/movements/{id}", protected(movementHandler.HandleDelete))

	mux.Handle("GET /api/alerts", protected(alertHandler.HandleList))
	mux.Handle("GET /api/alerts/check", protected(alertHandler.HandleCheck))
	mux.Handle("POST /api/alerts", protected(alertHandler.HandleCreate))
	mux.Handle("PUT /api/alerts/{id}", protected(alertHandler.HandleUpdate))
	mux.Handle("DELETE /api/alerts/{id}", protected(alertHandler.HandleDelete))
}
