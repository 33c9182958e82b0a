package transport

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/agentstation/moinit/pkg/errors"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) error {
	return nil
}

// BearerAuth implements static Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.Token)
	return nil
}

// OAuth2Auth authenticates with tokens from an OAuth2 token source. Tokens
// are cached by the source and refreshed when they expire.
type OAuth2Auth struct {
	Source oauth2.TokenSource
}

// Apply implements the Authenticator interface for OAuth2Auth.
func (a *OAuth2Auth) Apply(req *http.Request) error {
	token, err := a.Source.Token()
	if err != nil {
		return errors.NewAuthenticationError("oauth2", "failed to obtain access token", err)
	}
	token.SetAuthHeader(req)
	return nil
}

// ClientCredentials identifies MO's Keycloak client.
type ClientCredentials struct {
	AuthServer   string
	Realm        string
	ClientID     string
	ClientSecret string
}

// TokenURL returns the Keycloak token endpoint for the realm.
func (c ClientCredentials) TokenURL() string {
	return strings.TrimRight(c.AuthServer, "/") + "/realms/" + c.Realm + "/protocol/openid-connect/token"
}

// NewOAuth2Auth creates an authenticator using the client credentials grant.
// The context is used for token requests only.
func NewOAuth2Auth(ctx context.Context, creds ClientCredentials, httpClient *http.Client) *OAuth2Auth {
	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL(),
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	return &OAuth2Auth{Source: cfg.TokenSource(ctx)}
}
