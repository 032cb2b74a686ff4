package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Credentials holds the OAuth credential set sourced from the environment.
// RedirectURI mirrors the OAuth client registration and never affects
// Configured.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

// Configured reports whether the set is complete enough for real API mode:
// client ID, client secret and refresh token all non-empty.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// DefaultScopes returns the OAuth scopes the assistant's integrations need
func DefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/calendar",
		"https://www.googleapis.com/auth/spreadsheets",
		"https://www.googleapis.com/auth/documents",
		"https://www.googleapis.com/auth/gmail.send",
	}
}

// Client derives short-lived access tokens from a long-lived refresh token.
// There is no interactive flow and no token cache on disk; renewal is
// handled by the oauth2 transport.
type Client struct {
	source oauth2.TokenSource
}

// NewClient creates the OAuth client for real API mode. Credentials must
// already be resolved; secret indirection happens before this point.
func NewClient(ctx context.Context, creds Credentials) (*Client, error) {
	if !creds.Configured() {
		return nil, fmt.Errorf("oauth credentials incomplete: client ID, client secret and refresh token are required")
	}

	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       DefaultScopes(),
		Endpoint:     google.Endpoint,
	}
	src := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})

	return &Client{source: oauth2.ReuseTokenSource(nil, src)}, nil
}

// Verify mints one access token to confirm the refresh token is accepted.
func (c *Client) Verify(ctx context.Context) error {
	if _, err := c.source.Token(); err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	return nil
}

// GetHTTPClient returns an HTTP client that injects fresh access tokens
func (c *Client) GetHTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, c.source)
}

// GetClientOption returns the option used to build Google API service clients
func (c *Client) GetClientOption(ctx context.Context) option.ClientOption {
	return option.WithHTTPClient(c.GetHTTPClient(ctx))
}
