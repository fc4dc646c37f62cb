package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
)

// OAuthProfile is the identity a provider reports for the authorizing user.
type OAuthProfile struct {
	Name  string
	Email string
}

// ProfileFetcher retrieves the user profile from a provider's API using an
// authorized HTTP client. Implementations are per provider; tests substitute
// their own.
type ProfileFetcher interface {
	Fetch(ctx context.Context, client *http.Client) (*OAuthProfile, error)
}

type oauthProvider struct {
	config  *oauth2.Config
	fetcher ProfileFetcher
}

// OAuthService drives the authorization-code flow against the configured
// OAuth providers.
type OAuthService struct {
	providers map[string]oauthProvider
}

// OAuthCredentials configures one provider. A provider with an empty ClientID
// is left disabled.
type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
}

// NewOAuthService creates an OAuthService for GitHub and Google. baseURL is
// the externally visible origin of this API; callbacks land on
// {baseURL}/api/oauth/{provider}/callback.
func NewOAuthService(baseURL string, github, google OAuthCredentials) *OAuthService {
	s := &OAuthService{providers: make(map[string]oauthProvider)}

	if github.ClientID != "" {
		s.providers[domain.ProviderGitHub] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     github.ClientID,
				ClientSecret: github.ClientSecret,
				Endpoint:     githuboauth.Endpoint,
				RedirectURL:  baseURL + "/api/oauth/github/callback",
				Scopes:       []string{"user:email"},
			},
			fetcher: githubFetcher{},
		}
	}
	if google.ClientID != "" {
		s.providers[domain.ProviderGoogle] = oauthProvider{
			config: &oauth2.Config{
				ClientID:     google.ClientID,
				ClientSecret: google.ClientSecret,
				Endpoint:     googleoauth.Endpoint,
				RedirectURL:  baseURL + "/api/oauth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
			},
			fetcher: googleFetcher{},
		}
	}
	return s
}

// SetFetcher overrides the profile fetcher for a provider. Used in tests to
// stub the provider API.
func (s *OAuthService) SetFetcher(provider string, f ProfileFetcher) {
	if p, ok := s.providers[provider]; ok {
		p.fetcher = f
		s.providers[provider] = p
	}
}

// Enabled reports whether the provider is configured.
func (s *OAuthService) Enabled(provider string) bool {
	_, ok := s.providers[provider]
	return ok
}

// AuthCodeURL returns the provider's consent page URL for the given state.
func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: unknown oauth provider %q", domain.ErrInvalidInput, provider)
	}
	return p.config.AuthCodeURL(state), nil
}

// FetchProfile exchanges the authorization code and retrieves the user's
// profile from the provider.
func (s *OAuthService) FetchProfile(ctx context.Context, provider, code string) (*OAuthProfile, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, fmt.Errorf("%w: unknown oauth provider %q", domain.ErrInvalidInput, provider)
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	profile, err := p.fetcher.Fetch(ctx, p.config.Client(ctx, token))
	if err != nil {
		return nil, fmt.Errorf("fetch %s profile: %w", provider, err)
	}
	return profile, nil
}

// GenerateState returns a random URL-safe state value for CSRF protection.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

type githubFetcher struct{}

func (githubFetcher) Fetch(ctx context.Context, client *http.Client) (*OAuthProfile, error) {
	var user struct {
		Name  string `json:"name"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &user); err != nil {
		return nil, err
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}
	email := user.Email
	if email == "" {
		// The profile email is often private; look it up explicitly.
		var emails []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}
		if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary {
				email = e.Email
				break
			}
		}
		if email == "" && len(emails) > 0 {
			email = emails[0].Email
		}
	}

	return &OAuthProfile{Name: name, Email: email}, nil
}

type googleFetcher struct{}

func (googleFetcher) Fetch(ctx context.Context, client *http.Client) (*OAuthProfile, error) {
	var user struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &user); err != nil {
		return nil, err
	}
	return &OAuthProfile{Name: user.Name, Email: user.Email}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
