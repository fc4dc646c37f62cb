package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

const stateCookieName = "oauth_state"

// OAuthHandler drives the browser-facing half of the OAuth login flow. On
// success the user lands back on the frontend with a token pair in the
// query string.
type OAuthHandler struct {
	oauth       *service.OAuthService
	auth        *service.AuthService
	frontendURL string
}

// NewOAuthHandler creates a new OAuthHandler.
func NewOAuthHandler(oauth *service.OAuthService, auth *service.AuthService, frontendURL string) *OAuthHandler {
	return &OAuthHandler{oauth: oauth, auth: auth, frontendURL: frontendURL}
}

// HandleStart redirects the browser to the provider's consent page.
// GET /api/oauth/{provider}
func (h *OAuthHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	if !h.oauth.Enabled(provider) {
		writeError(w, http.StatusNotFound, "Unknown OAuth provider.")
		return
	}

	state, err := service.GenerateState()
	if err != nil {
		slog.Error("generate oauth state", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	authURL, err := h.oauth.AuthCodeURL(provider, state)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown OAuth provider.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/oauth",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback finishes the flow: it verifies the state, exchanges the code
// for the provider profile, signs the user in (creating the account on first
// login), and redirects to the frontend with the issued tokens.
// GET /api/oauth/{provider}/callback
func (h *OAuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	if !h.oauth.Enabled(provider) {
		writeError(w, http.StatusNotFound, "Unknown OAuth provider.")
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.redirectFailure(w, r)
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, http.StatusBadRequest, "Invalid OAuth state.")
		return
	}
	// The state is single use.
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Path: "/api/oauth", MaxAge: -1})

	profile, err := h.oauth.FetchProfile(r.Context(), provider, r.URL.Query().Get("code"))
	if err != nil {
		slog.Error("oauth profile fetch", "provider", provider, "error", err)
		h.redirectFailure(w, r)
		return
	}

	_, pair, err := h.auth.LoginWithOAuth(r.Context(), provider, profile.Name, profile.Email)
	if err != nil {
		slog.Error("oauth login", "provider", provider, "error", err)
		h.redirectFailure(w, r)
		return
	}

	query := url.Values{}
	query.Set("token", pair.AccessToken)
	query.Set("refreshToken", pair.RefreshToken)
	http.Redirect(w, r, h.frontendURL+"/oauth-success?"+query.Encode(), http.StatusFound)
}

func (h *OAuthHandler) redirectFailure(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.frontendURL+"/login", http.StatusFound)
}
