package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/spec-kit/job-board-service/internal/config"
)

// OAuthProfile is the identity returned by the provider after sign-in.
type OAuthProfile struct {
	ProviderID string
	Name       string
	Email      string
	AvatarURL  string
}

// OAuthProvider abstracts the external identity provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchProfile(ctx context.Context, token *oauth2.Token) (*OAuthProfile, error)
}

const githubUserEndpoint = "https://api.github.com/user"

// GitHubProvider implements OAuthProvider against GitHub.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider builds the provider from auth configuration.
func NewGitHubProvider(cfg config.AuthConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

// AuthCodeURL returns the provider consent URL carrying the state nonce.
func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for an access token.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code)
}

// FetchProfile loads the signed-in user's GitHub profile.
func (p *GitHubProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (*OAuthProfile, error) {
	client := p.config.Client(ctx, token)

	resp, err := client.Get(githubUserEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	name := payload.Name
	if name == "" {
		name = payload.Login
	}

	return &OAuthProfile{
		ProviderID: strconv.FormatInt(payload.ID, 10),
		Name:       name,
		Email:      payload.Email,
		AvatarURL:  payload.AvatarURL,
	}, nil
}
