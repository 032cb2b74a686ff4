package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedesk/google-mcp-server/auth"
)

func TestCredentialsConfigured(t *testing.T) {
	// Exhaustive truth table over the three gating fields. RedirectURI is
	// checked separately: it never participates.
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		refreshToken string
		want         bool
	}{
		{name: "none set", want: false},
		{name: "id only", clientID: "id", want: false},
		{name: "secret only", clientSecret: "secret", want: false},
		{name: "token only", refreshToken: "token", want: false},
		{name: "id and secret", clientID: "id", clientSecret: "secret", want: false},
		{name: "id and token", clientID: "id", refreshToken: "token", want: false},
		{name: "secret and token", clientSecret: "secret", refreshToken: "token", want: false},
		{name: "all set", clientID: "id", clientSecret: "secret", refreshToken: "token", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := auth.Credentials{
				ClientID:     tt.clientID,
				ClientSecret: tt.clientSecret,
				RefreshToken: tt.refreshToken,
			}
			assert.Equal(t, tt.want, creds.Configured())
		})
	}
}

func TestCredentialsConfigured_RedirectURINeverGates(t *testing.T) {
	complete := auth.Credentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "token"}
	assert.True(t, complete.Configured())

	complete.RedirectURI = "http://localhost:8080/callback"
	assert.True(t, complete.Configured())

	incomplete := auth.Credentials{RedirectURI: "http://localhost:8080/callback"}
	assert.False(t, incomplete.Configured())
}

func TestDefaultScopes(t *testing.T) {
	scopes := auth.DefaultScopes()

	assert.Contains(t, scopes, "https://www.googleapis.com/auth/calendar")
	assert.Contains(t, scopes, "https://www.googleapis.com/auth/spreadsheets")
	assert.Contains(t, scopes, "https://www.googleapis.com/auth/documents")
	assert.Contains(t, scopes, "https://www.googleapis.com/auth/gmail.send")
}

func TestNewClient_IncompleteCredentials(t *testing.T) {
	_, err := auth.NewClient(context.Background(), auth.Credentials{ClientID: "id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete")
}

func TestNewClient_CompleteCredentials(t *testing.T) {
	client, err := auth.NewClient(context.Background(), auth.Credentials{
		ClientID:     "id",
		ClientSecret: "secret",
		RefreshToken: "token",
	})
	require.NoError(t, err)
	assert.NotNil(t, client.GetHTTPClient(context.Background()))
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "api disabled",
			err:      errors.New("googleapi: Error 403: Google Sheets API has not been used in project 123 before or it is disabled, accessNotConfigured"),
			contains: "Enable the API at",
		},
		{
			name:     "insufficient permissions",
			err:      errors.New("googleapi: Error 403: Request had insufficient authentication scopes, insufficientPermissions"),
			contains: "Mint a new refresh token",
		},
		{
			name:     "unknown error passes through",
			err:      errors.New("connection reset by peer"),
			contains: "connection reset by peer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := auth.HandleServiceError(tt.err, "sheets")
			require.Error(t, got)
			assert.Contains(t, got.Error(), tt.contains)
		})
	}

	assert.NoError(t, auth.HandleServiceError(nil, "sheets"))
}
