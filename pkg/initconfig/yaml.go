package initconfig

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

type yamlDocument struct {
	RootOrganisation *RootOrganisation `yaml:"root_organisation"`
	Facets           yaml.MapSlice     `yaml:"facets"`
}

// parseYAML decodes with ordered maps so facets and classes keep document order.
func parseYAML(data []byte) (*Config, error) {
	var doc yamlDocument
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}

	cfg := &Config{RootOrganisation: doc.RootOrganisation}
	for _, item := range doc.Facets {
		facet := taxonomy.DesiredFacet{UserKey: keyString(item.Key)}

		classes, err := asMapSlice(item.Value, "facets."+facet.UserKey)
		if err != nil {
			return nil, err
		}
		for _, ci := range classes {
			class, err := yamlClass(keyString(ci.Key), ci.Value, "facets."+facet.UserKey)
			if err != nil {
				return nil, err
			}
			facet.Classes = append(facet.Classes, class)
		}
		cfg.Facets = append(cfg.Facets, facet)
	}
	return cfg, nil
}

// yamlClass accepts a mapping with title and scope, a bare title string, or null.
func yamlClass(userKey string, value any, field string) (taxonomy.DesiredClass, error) {
	switch v := value.(type) {
	case nil:
		return newDesiredClass(userKey, "", ""), nil
	case string:
		return newDesiredClass(userKey, v, ""), nil
	}

	attrs, err := asMapSlice(value, field+"."+userKey)
	if err != nil {
		return taxonomy.DesiredClass{}, err
	}
	var title, scope string
	for _, attr := range attrs {
		switch keyString(attr.Key) {
		case "title":
			title = scalarString(attr.Value)
		case "scope":
			scope = scalarString(attr.Value)
		default:
			return taxonomy.DesiredClass{}, unknownClassKey(field+"."+userKey, keyString(attr.Key))
		}
	}
	return newDesiredClass(userKey, title, scope), nil
}

func asMapSlice(value any, field string) (yaml.MapSlice, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case yaml.MapSlice:
		return v, nil
	default:
		return nil, errors.NewValidationError(field, value, fmt.Sprintf("expected a mapping, got %T", value))
	}
}

func keyString(key any) string {
	return scalarString(key)
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}
