package taxonomy

import "github.com/google/uuid"

// Facet is a named category of classification values in MO.
type Facet struct {
	UUID    uuid.UUID `json:"uuid" yaml:"uuid"`
	UserKey string    `json:"user_key" yaml:"user_key"`
	Classes []Class   `json:"classes" yaml:"classes"`
}

// Class returns the first class in the facet with the given user key.
func (f *Facet) Class(userKey string) (Class, bool) {
	for _, c := range f.Classes {
		if c.UserKey == userKey {
			return c, true
		}
	}
	return Class{}, false
}

// Organisation is the MO root organisation.
type Organisation struct {
	UUID    uuid.UUID `json:"uuid" yaml:"uuid"`
	Name    string    `json:"name" yaml:"name"`
	UserKey string    `json:"user_key" yaml:"user_key"`
}
