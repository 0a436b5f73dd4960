package remote

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenProvider supplies a bearer credential for the remote APIs. Token
// acquisition is opaque to the fetchers; they only attach the result.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenProvider returns a fixed token. Used for development setups
// and for test harnesses.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider returning the given token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// Token returns the static token, or ErrNoCredentials when empty.
func (p *StaticTokenProvider) Token(_ context.Context) (string, error) {
	if p.token == "" {
		return "", ErrNoCredentials
	}
	return p.token, nil
}

// ClientCredentialsProvider acquires tokens via the OAuth2 client
// credentials flow, caching and refreshing them as the underlying token
// source dictates.
type ClientCredentialsProvider struct {
	source oauth2.TokenSource
}

// NewClientCredentialsProvider creates a provider for the given token
// endpoint and client credential pair.
func NewClientCredentialsProvider(tokenURL, clientID, clientSecret string, scopes []string) *ClientCredentialsProvider {
	cfg := &clientcredentials.Config{
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
	}
	// The background context scopes the token HTTP client, not any one
	// request; per-request contexts govern the API calls themselves.
	return &ClientCredentialsProvider{source: cfg.TokenSource(context.Background())}
}

// Token returns a valid access token, refreshing if needed.
func (p *ClientCredentialsProvider) Token(_ context.Context) (string, error) {
	tok, err := p.source.Token()
	if err != nil {
		return "", fmt.Errorf("acquiring token: %w", err)
	}
	return tok.AccessToken, nil
}
