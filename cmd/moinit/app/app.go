// Package app provides the application context and dependency management
// for the moinit CLI. It centralizes configuration, logging and the
// construction of MO clients for the commands.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/moinit"
	"github.com/agentstation/moinit/internal/cmd/application"
	"github.com/agentstation/moinit/internal/transport"
	"github.com/agentstation/moinit/pkg/errors"
)

// App represents the moinit application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized from the environment and can be customized using
// functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client creates a MO client from the configuration. Options given by the
// caller are applied last.
func (a *App) Client(opts ...moinit.Option) (moinit.Client, error) {
	client, err := moinit.New(append(a.clientOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", a.config.MOURL, err)
	}
	return client, nil
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []moinit.Option {
	opts := []moinit.Option{
		moinit.WithMOURL(a.config.MOURL),
		moinit.WithGraphQLVersion(a.config.GraphQLVersion),
		moinit.WithHTTPTimeout(a.config.HTTPTimeout),
		moinit.WithMaxConcurrency(a.config.FetchConcurrency),
		moinit.WithNestedFetch(a.config.NestedFetch),
	}

	switch {
	case a.config.ClientID != "":
		opts = append(opts, moinit.WithClientCredentials(transport.ClientCredentials{
			AuthServer:   a.config.AuthServer,
			Realm:        a.config.AuthRealm,
			ClientID:     a.config.ClientID,
			ClientSecret: a.config.ClientSecret,
		}))
	case a.config.Token != "":
		opts = append(opts, moinit.WithBearerToken(a.config.Token))
	default:
		a.logger.Warn().Msg("No MO credentials configured, sending unauthenticated requests")
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
