// Package secrets dereferences credential values that point into a secret
// store. Plain values pass through untouched, so the indirection is opt-in
// per variable: "ssm://name" reads AWS Systems Manager Parameter Store,
// "sm://projects/P/secrets/S" reads Google Secret Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/voicedesk/google-mcp-server/auth"
)

const (
	ssmScheme = "ssm://"
	smScheme  = "sm://"
)

// Fetcher retrieves one named secret from a backing store.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// Resolver maps scheme-prefixed values to their secret store.
type Resolver struct {
	ssm Fetcher
	sm  Fetcher
}

// NewResolver returns a resolver backed by Parameter Store and Secret
// Manager. Store clients are constructed lazily, on the first value that
// names them.
func NewResolver() *Resolver {
	return &Resolver{ssm: &parameterStore{}, sm: &secretStore{}}
}

// NewResolverWith injects fetchers for both schemes.
func NewResolverWith(ssmFetcher, smFetcher Fetcher) *Resolver {
	return &Resolver{ssm: ssmFetcher, sm: smFetcher}
}

// Resolve dereferences value if it carries a known scheme prefix and returns
// it verbatim otherwise.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	switch {
	case strings.HasPrefix(value, ssmScheme):
		name := strings.TrimPrefix(value, ssmScheme)
		if name == "" {
			return "", errors.New("empty parameter name after ssm://")
		}
		return r.ssm.Fetch(ctx, name)
	case strings.HasPrefix(value, smScheme):
		name := strings.TrimPrefix(value, smScheme)
		if name == "" {
			return "", errors.New("empty secret name after sm://")
		}
		return r.sm.Fetch(ctx, name)
	default:
		return value, nil
	}
}

// ResolveCredentials dereferences the three gating credential fields. The
// redirect URI is never secret material and stays as resolved from the
// environment.
func (r *Resolver) ResolveCredentials(ctx context.Context, creds auth.Credentials) (auth.Credentials, error) {
	var err error
	if creds.ClientID, err = r.Resolve(ctx, creds.ClientID); err != nil {
		return creds, fmt.Errorf("resolve client ID: %w", err)
	}
	if creds.ClientSecret, err = r.Resolve(ctx, creds.ClientSecret); err != nil {
		return creds, fmt.Errorf("resolve client secret: %w", err)
	}
	if creds.RefreshToken, err = r.Resolve(ctx, creds.RefreshToken); err != nil {
		return creds, fmt.Errorf("resolve refresh token: %w", err)
	}
	return creds, nil
}

type parameterStore struct {
	once   sync.Once
	client *ssm.Client
	err    error
}

func (p *parameterStore) Fetch(ctx context.Context, name string) (string, error) {
	p.once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			p.err = fmt.Errorf("load aws config: %w", err)
			return
		}
		p.client = ssm.NewFromConfig(cfg)
	})
	if p.err != nil {
		return "", p.err
	}

	param, err := p.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("get SSM parameter %s: %w", name, err)
	}
	if param.Parameter == nil || param.Parameter.Value == nil {
		return "", fmt.Errorf("SSM parameter %s has no value", name)
	}

	return *param.Parameter.Value, nil
}

type secretStore struct {
	once   sync.Once
	client *secretmanager.Client
	err    error
}

func (s *secretStore) Fetch(ctx context.Context, name string) (string, error) {
	s.once.Do(func() {
		client, err := secretmanager.NewClient(ctx)
		if err != nil {
			s.err = fmt.Errorf("failed to create secret manager client: %w", err)
			return
		}
		s.client = client
	})
	if s.err != nil {
		return "", s.err
	}

	// Bare secret names read the latest version.
	if !strings.Contains(name, "/versions/") {
		name += "/versions/latest"
	}

	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}

	return string(result.Payload.Data), nil
}
