package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/moinit/pkg/constants"
	"github.com/agentstation/moinit/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// MO connection
	MOURL            string
	GraphQLVersion   int
	HTTPTimeout      time.Duration
	FetchConcurrency int
	NestedFetch      bool

	// Authentication. Client credentials take precedence over Token.
	AuthServer   string
	AuthRealm    string
	ClientID     string
	ClientSecret string
	Token        string

	// Logging configuration. LogLevel is only set by --log-level so the
	// shortcut flags can take precedence over EnvLogLevel.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (configFile, or .moinit.yaml in $HOME or the working directory)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config file", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".moinit")
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		MOURL:            v.GetString("mo_url"),
		GraphQLVersion:   v.GetInt("graphql_version"),
		HTTPTimeout:      v.GetDuration("http_timeout"),
		FetchConcurrency: v.GetInt("fetch_concurrency"),
		NestedFetch:      v.GetBool("nested_fetch"),

		AuthServer:   v.GetString("auth_server"),
		AuthRealm:    v.GetString("auth_realm"),
		ClientID:     v.GetString("client_id"),
		ClientSecret: v.GetString("client_secret"),
		Token:        v.GetString("mo_token"),

		EnvLogLevel: v.GetString("log_level"),
		LogFormat:   v.GetString("log_format"),
		LogOutput:   v.GetString("log_output"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mo_url", constants.DefaultMOURL)
	v.SetDefault("graphql_version", constants.DefaultGraphQLVersion)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("fetch_concurrency", constants.DefaultFetchConcurrency)
	v.SetDefault("auth_realm", constants.DefaultAuthRealm)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.ClientID != "" && c.AuthServer == "" {
		return &errors.ValidationError{
			Field:   "AUTH_SERVER",
			Message: "required when CLIENT_ID is set",
		}
	}
	if c.GraphQLVersion <= 0 {
		return &errors.ValidationError{
			Field:   "GRAPHQL_VERSION",
			Value:   c.GraphQLVersion,
			Message: "must be positive",
		}
	}
	if c.FetchConcurrency <= 0 {
		return &errors.ValidationError{
			Field:   "FETCH_CONCURRENCY",
			Value:   c.FetchConcurrency,
			Message: "must be positive",
		}
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags so that
// flag values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides variables that are already set, so .env.local only fills in
// what .env left unset.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
