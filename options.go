package moinit

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/agentstation/moinit/internal/graphql"
	"github.com/agentstation/moinit/internal/transport"
	"github.com/agentstation/moinit/pkg/constants"
	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/reconciler"
)

// Option is a function that configures a Client
type Option func(*config) error

// config holds the client configuration
type config struct {
	moURL          string
	graphqlVersion int
	httpTimeout    time.Duration
	httpClient     *http.Client
	concurrency    int
	nestedFetch    bool

	credentials *transport.ClientCredentials
	token       string

	observers []reconciler.Observer

	// executor replaces the HTTP transport, for tests.
	executor graphql.Executor
}

func defaultConfig() *config {
	return &config{
		moURL:          constants.DefaultMOURL,
		graphqlVersion: constants.DefaultGraphQLVersion,
		httpTimeout:    constants.DefaultHTTPTimeout,
		concurrency:    constants.DefaultFetchConcurrency,
	}
}

func newConfig(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("client", "applying options", err)
		}
	}
	return cfg, nil
}

// authenticator selects the authentication for requests to MO. Client
// credentials take precedence over a static token.
func (c *config) authenticator(httpClient *http.Client) transport.Authenticator {
	switch {
	case c.credentials != nil:
		return transport.NewOAuth2Auth(context.Background(), *c.credentials, httpClient)
	case c.token != "":
		return &transport.BearerAuth{Token: c.token}
	default:
		return &transport.NoAuth{}
	}
}

// WithMOURL sets the base URL of MO, e.g. https://mo.example.com.
func WithMOURL(rawURL string) Option {
	return func(c *config) error {
		u, err := url.Parse(rawURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &errors.ValidationError{Field: "mo_url", Value: rawURL, Message: "must be an absolute URL"}
		}
		c.moURL = rawURL
		return nil
	}
}

// WithGraphQLVersion sets the MO GraphQL API version.
func WithGraphQLVersion(version int) Option {
	return func(c *config) error {
		if version <= 0 {
			return &errors.ValidationError{Field: "graphql_version", Value: version, Message: "must be positive"}
		}
		c.graphqlVersion = version
		return nil
	}
}

// WithClientCredentials authenticates with an OAuth2 client credentials grant
// against Keycloak.
func WithClientCredentials(creds transport.ClientCredentials) Option {
	return func(c *config) error {
		if creds.AuthServer == "" || creds.ClientID == "" {
			return &errors.ValidationError{Field: "client_credentials", Message: "auth server and client id are required"}
		}
		if creds.Realm == "" {
			creds.Realm = constants.DefaultAuthRealm
		}
		c.credentials = &creds
		return nil
	}
}

// WithBearerToken authenticates with a static bearer token.
func WithBearerToken(token string) Option {
	return func(c *config) error {
		c.token = token
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for MO and the token endpoint.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) error {
		c.httpClient = httpClient
		return nil
	}
}

// WithHTTPTimeout sets the timeout of the default HTTP client.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &errors.ValidationError{Field: "http_timeout", Value: timeout, Message: "must be non-negative"}
		}
		c.httpTimeout = timeout
		return nil
	}
}

// WithMaxConcurrency bounds the number of concurrent class queries.
func WithMaxConcurrency(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "concurrency", Value: n, Message: "must be positive"}
		}
		c.concurrency = n
		return nil
	}
}

// WithNestedFetch fetches classes embedded in the facet query instead of
// one query per facet.
func WithNestedFetch(enabled bool) Option {
	return func(c *config) error {
		c.nestedFetch = enabled
		return nil
	}
}

// WithObserver adds an observer notified of every class write.
func WithObserver(observer reconciler.Observer) Option {
	return func(c *config) error {
		if observer == nil {
			return &errors.ValidationError{Field: "observer", Message: "cannot be nil"}
		}
		c.observers = append(c.observers, observer)
		return nil
	}
}

func withExecutor(exec graphql.Executor) Option {
	return func(c *config) error {
		c.executor = exec
		return nil
	}
}
