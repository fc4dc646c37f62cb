package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

// AuthHandler handles registration, login, and token refresh.
type AuthHandler struct {
	auth   *service.AuthService
	tokens *service.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

// HandleRegister creates a user account and returns its first token pair.
// POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !readValidJSON(w, r, &req) {
		return
	}

	user, pair, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusBadRequest, "Email already registered.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("register user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
		"user":         toUserDTO(user.Principal()),
	})
}

// HandleLogin verifies credentials and returns a fresh token pair. The error
// message never reveals whether the email exists.
// POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readValidJSON(w, r, &req) {
		return
	}

	user, pair, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Invalid credentials.")
			return
		}
		slog.Error("login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":        pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"expiresIn":    pair.ExpiresIn,
		"user":         toUserDTO(user.Principal()),
	})
}

// HandleRefreshToken exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated.
// POST /api/auth/refresh-token
func (h *AuthHandler) HandleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	access, expiresIn, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingToken):
			writeError(w, http.StatusBadRequest, "Refresh token required.")
		case errors.Is(err, domain.ErrExpiredRefreshToken):
			writeError(w, http.StatusForbidden, "Refresh token expired, log in again.")
		case errors.Is(err, domain.ErrInvalidRefreshToken):
			writeError(w, http.StatusForbidden, "Invalid refresh token.")
		default:
			slog.Error("refresh token", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, TokenDTO{Token: access, ExpiresIn: expiresIn})
}

// HandleMe returns the authenticated principal.
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(principal)})
}
