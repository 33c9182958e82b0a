package taxonomy

import "github.com/google/uuid"

// Scope describes how the value of a class should be interpreted by MO.
// MO owns validation of the value, so unknown scopes are passed through.
type Scope string

// Well-known scopes.
const (
	ScopeText     Scope = "TEXT"
	ScopePublic   Scope = "PUBLIC"
	ScopeSecret   Scope = "SECRET"
	ScopeInternal Scope = "INTERNAL"
	ScopeEmail    Scope = "EMAIL"
	ScopePhone    Scope = "PHONE"
	ScopeDAR      Scope = "DAR"
	ScopeEAN      Scope = "EAN"
	ScopePNumber  Scope = "PNUMBER"
	ScopeWWW      Scope = "WWW"
)

// String implements fmt.Stringer.
func (s Scope) String() string {
	return string(s)
}

// Known reports whether s is one of the well-known scopes.
func (s Scope) Known() bool {
	switch s {
	case ScopeText, ScopePublic, ScopeSecret, ScopeInternal, ScopeEmail,
		ScopePhone, ScopeDAR, ScopeEAN, ScopePNumber, ScopeWWW:
		return true
	}
	return false
}

// Class is one classification value belonging to exactly one facet.
type Class struct {
	UUID    uuid.UUID `json:"uuid" yaml:"uuid"`
	UserKey string    `json:"user_key" yaml:"user_key"`
	Name    string    `json:"name" yaml:"name"`
	Scope   Scope     `json:"scope" yaml:"scope"`
}
