// Package constants provides shared constants used throughout the moinit codebase.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to MO and the auth server
	DefaultHTTPTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// MO defaults
const (
	// DefaultMOURL is the MO base URL used when none is configured
	DefaultMOURL = "http://localhost:5000"

	// DefaultGraphQLVersion is the MO GraphQL schema version queried
	DefaultGraphQLVersion = 22

	// DefaultAuthRealm is the Keycloak realm MO clients authenticate against
	DefaultAuthRealm = "mo"

	// DefaultFetchConcurrency bounds the number of concurrent per-facet class queries
	DefaultFetchConcurrency = 10

	// DefaultInitConfigFile is the desired configuration read by the run command
	DefaultInitConfigFile = "init.config.yml"

	// ClassValidFrom is the validity start sent with class creates and updates
	ClassValidFrom = "1930-01-01"
)
