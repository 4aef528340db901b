package spotify

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// Credentials is the long-lived credential set for the refresh-token grant.
// It is constructed once at startup and never mutated.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// NewTokenSource exchanges the refresh token for short-lived access tokens
// against tokenURL. The returned source caches the current token until it
// expires and serializes refreshes, so concurrent requests share one
// exchange. The client secret is sent via HTTP Basic auth on the token
// endpoint.
//
// httpClient may be nil, in which case http.DefaultClient is used. Tests
// pass a client pointed at a fake token endpoint.
func NewTokenSource(creds Credentials, tokenURL string, httpClient *http.Client) (oauth2.TokenSource, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RefreshToken == "" {
		return nil, fmt.Errorf("%w: incomplete credentials", ErrAuthentication)
	}

	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}), nil
}
