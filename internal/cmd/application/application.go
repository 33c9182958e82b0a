// Package application defines what CLI commands need from the moinit
// application.
//
// Commands accept the Application interface rather than the concrete App
// type from cmd/moinit/app, so they can be tested with Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func(opts ...moinit.Option) (moinit.Client, error) {
//	        return moinit.New(append(opts, moinit.WithMOURL(server.URL))...)
//	    },
//	}
//	cmd := facets.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/moinit"
)

// Application provides the application interface that commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client creates a MO client from the application configuration. The
	// given options are applied after the configured ones. Callers close
	// the client.
	Client(opts ...moinit.Option) (moinit.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	// Empty means auto-detect.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
