// Package initconfig loads the declarative moinit configuration: the root
// organisation to create if MO has none, and the classes each facet should
// have. Facet and class order is the order of the source document.
package initconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Config is the desired state of an MO instance.
type Config struct {
	RootOrganisation *RootOrganisation `json:"root_organisation,omitempty" yaml:"root_organisation,omitempty"`
	Facets           taxonomy.Desired  `json:"facets" yaml:"facets"`
}

// RootOrganisation describes the root organisation to create when MO has none.
type RootOrganisation struct {
	Name             string `json:"name" yaml:"name" toml:"name"`
	UserKey          string `json:"user_key" yaml:"user_key" toml:"user_key"`
	MunicipalityCode int    `json:"municipality_code,omitempty" yaml:"municipality_code" toml:"municipality_code"`
}

// Format is a supported configuration file format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.NewValidationError("path", path, "unsupported config extension, expected .yml, .yaml or .toml")
	}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	cfg, err := Parse(data, format)
	if err != nil {
		return nil, withFile(err, path)
	}
	return cfg, nil
}

// Parse parses configuration data in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch format {
	case FormatYAML:
		cfg, err = parseYAML(data)
	case FormatTOML:
		cfg, err = parseTOML(data)
	default:
		return nil, errors.NewValidationError("format", format, "unsupported format")
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that facet and class user keys are non-empty and unique.
func (c *Config) Validate() error {
	seenFacets := make(map[string]bool, len(c.Facets))
	for _, f := range c.Facets {
		if f.UserKey == "" {
			return errors.NewValidationError("facets", nil, "facet user key must not be empty")
		}
		if seenFacets[f.UserKey] {
			return errors.NewValidationError("facets", f.UserKey, fmt.Sprintf("facet %q is listed more than once", f.UserKey))
		}
		seenFacets[f.UserKey] = true

		seenClasses := make(map[string]bool, len(f.Classes))
		for _, cl := range f.Classes {
			field := "facets." + f.UserKey
			if cl.UserKey == "" {
				return errors.NewValidationError(field, nil, "class user key must not be empty")
			}
			if seenClasses[cl.UserKey] {
				return errors.NewValidationError(field, cl.UserKey, fmt.Sprintf("class %q is listed more than once", cl.UserKey))
			}
			seenClasses[cl.UserKey] = true
		}
	}

	if org := c.RootOrganisation; org != nil && org.MunicipalityCode < 0 {
		return errors.NewValidationError("root_organisation.municipality_code", org.MunicipalityCode, "must not be negative")
	}
	return nil
}

// newDesiredClass defaults an omitted title to the class key. An omitted
// scope stays empty so updates keep the scope MO already has.
func newDesiredClass(userKey, title, scope string) taxonomy.DesiredClass {
	if title == "" {
		title = userKey
	}
	return taxonomy.DesiredClass{UserKey: userKey, Title: title, Scope: taxonomy.Scope(scope)}
}

// UnknownScopes lists "facet/class" keys of classes whose scope is set but
// not one of the well-known scopes. They are sent to MO unchanged.
func (c *Config) UnknownScopes() []string {
	var keys []string
	for _, f := range c.Facets {
		for _, cl := range f.Classes {
			if cl.Scope != "" && !cl.Scope.Known() {
				keys = append(keys, f.UserKey+"/"+cl.UserKey)
			}
		}
	}
	return keys
}

func unknownClassKey(field, key string) error {
	return errors.NewValidationError(field, key, fmt.Sprintf("unknown class key %q, expected title or scope", key))
}

// withFile attaches the source path to parse errors.
func withFile(err error, path string) error {
	if pe, ok := err.(*errors.ParseError); ok && pe.File == "" {
		pe.File = path
	}
	return err
}
