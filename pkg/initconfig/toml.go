package initconfig

import (
	"github.com/BurntSushi/toml"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

type tomlDocument struct {
	RootOrganisation *RootOrganisation                `toml:"root_organisation"`
	Facets           map[string]map[string]tomlClass `toml:"facets"`
}

type tomlClass struct {
	Title string `toml:"title"`
	Scope string `toml:"scope"`
}

// parseTOML decodes into maps and recovers document order from the metadata
// key list, which lists tables in the order they appear.
func parseTOML(data []byte) (*Config, error) {
	var doc tomlDocument
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.WrapParse("toml", "", err)
	}

	for _, key := range md.Undecoded() {
		if len(key) == 4 && key[0] == "facets" {
			return nil, unknownClassKey(key[:3].String(), key[3])
		}
	}

	cfg := &Config{RootOrganisation: doc.RootOrganisation}
	facetPos := make(map[string]int)
	seenClass := make(map[[2]string]bool)

	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "facets" {
			continue
		}
		facetKey := key[1]
		pos, ok := facetPos[facetKey]
		if !ok {
			pos = len(cfg.Facets)
			facetPos[facetKey] = pos
			cfg.Facets = append(cfg.Facets, taxonomy.DesiredFacet{UserKey: facetKey})
		}
		if len(key) < 3 {
			continue
		}
		classKey := key[2]
		if seenClass[[2]string{facetKey, classKey}] {
			continue
		}
		seenClass[[2]string{facetKey, classKey}] = true

		c := doc.Facets[facetKey][classKey]
		cfg.Facets[pos].Classes = append(cfg.Facets[pos].Classes, newDesiredClass(classKey, c.Title, c.Scope))
	}
	return cfg, nil
}
