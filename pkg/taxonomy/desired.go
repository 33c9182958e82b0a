package taxonomy

// DesiredClass is the title and scope a class should have. An empty Scope
// leaves the scope of an existing class unchanged and creates new classes
// with ScopeText.
type DesiredClass struct {
	UserKey string `json:"user_key" yaml:"user_key"`
	Title   string `json:"title" yaml:"title"`
	Scope   Scope  `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// DesiredFacet lists the classes that should exist under a facet, in
// configuration order.
type DesiredFacet struct {
	UserKey string         `json:"user_key" yaml:"user_key"`
	Classes []DesiredClass `json:"classes" yaml:"classes"`
}

// Class returns the desired class with the given user key.
func (f DesiredFacet) Class(userKey string) (DesiredClass, bool) {
	for _, c := range f.Classes {
		if c.UserKey == userKey {
			return c, true
		}
	}
	return DesiredClass{}, false
}

// Desired is the desired state of facet classes. Iteration order is the order
// of the source document and determines the order of emitted mutations.
type Desired []DesiredFacet

// Facet returns the desired facet with the given user key.
func (d Desired) Facet(userKey string) (DesiredFacet, bool) {
	for _, f := range d {
		if f.UserKey == userKey {
			return f, true
		}
	}
	return DesiredFacet{}, false
}

// Len returns the total number of desired classes across all facets.
func (d Desired) Len() int {
	n := 0
	for _, f := range d {
		n += len(f.Classes)
	}
	return n
}
