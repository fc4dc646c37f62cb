package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// TokenService mints and validates the two-token authentication scheme: a
// short-lived access token and a long-lived refresh token, each signed with
// its own secret so one kind is never accepted where the other is expected.
type TokenService struct {
	users         domain.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a new TokenService. The two secrets must differ;
// config validation enforces that before the process starts.
func NewTokenService(users domain.UserRepository, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair mints an access and a refresh token for the user and stores the
// refresh token on the user record, replacing any prior one. Only the most
// recently issued refresh token is valid per user.
func (s *TokenService) IssuePair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.sign(s.accessSecret, user.ID, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.signRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// ValidateAccess verifies an access token and resolves it to a Principal.
// An expired token yields a *domain.TokenExpiredError carrying the expiry
// time; every other failure collapses to ErrInvalidToken so callers learn
// nothing about why.
func (s *TokenService) ValidateAccess(ctx context.Context, tokenString string) (*domain.Principal, error) {
	token, err := s.parse(tokenString, s.accessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			e := &domain.TokenExpiredError{}
			if token != nil {
				if exp, expErr := token.Claims.GetExpirationTime(); expErr == nil && exp != nil {
					e.ExpiredAt = exp.Time
				}
			}
			return nil, e
		}
		return nil, domain.ErrInvalidToken
	}

	userID, err := subjectUserID(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		// The record may have been deleted since issuance.
		return nil, domain.ErrInvalidToken
	}

	return user.Principal(), nil
}

// Refresh verifies a refresh token and mints a new access token. The presented
// token must exactly equal the one stored on the user record; a mismatch means
// it was superseded by a later login and is rejected. The refresh token itself
// is not rotated here, it stays valid until the next login.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (accessToken string, expiresIn int64, err error) {
	if refreshToken == "" {
		return "", 0, domain.ErrMissingToken
	}

	token, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", 0, domain.ErrExpiredRefreshToken
		}
		return "", 0, domain.ErrInvalidRefreshToken
	}

	userID, err := subjectUserID(token)
	if err != nil {
		return "", 0, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", 0, domain.ErrInvalidRefreshToken
	}

	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return "", 0, domain.ErrInvalidRefreshToken
	}

	accessToken, err = s.sign(s.accessSecret, user.ID, s.accessTTL)
	if err != nil {
		return "", 0, fmt.Errorf("sign access token: %w", err)
	}
	return accessToken, int64(s.accessTTL.Seconds()), nil
}

// AccessTTL returns the configured access token lifetime.
func (s *TokenService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *TokenService) sign(secret []byte, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// signRefresh mints a refresh token with a random jti claim. Timestamps have
// second granularity, so without the jti two logins in the same second would
// produce identical tokens and the stored-token comparison in Refresh could
// not tell the superseded one apart.
func (s *TokenService) signRefresh(userID int64) (string, error) {
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"jti": base64.RawURLEncoding.EncodeToString(id),
		"iat": now.Unix(),
		"exp": now.Add(s.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.refreshSecret)
}

func (s *TokenService) parse(tokenString string, secret []byte) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
}

func subjectUserID(token *jwt.Token) (int64, error) {
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(sub, 10, 64)
}
