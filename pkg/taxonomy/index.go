package taxonomy

// Index gives user key lookups over a fetched facet tree.
//
// MO does not enforce user key uniqueness, so the first occurrence of a key
// wins and later ones are recorded as duplicates.
type Index struct {
	facets     map[string]*facetEntry
	duplicates []string
}

type facetEntry struct {
	facet   Facet
	classes map[string]Class
}

// NewIndex builds an index over facets. The input is not retained.
func NewIndex(facets []Facet) *Index {
	idx := &Index{facets: make(map[string]*facetEntry, len(facets))}
	for _, f := range facets {
		if _, ok := idx.facets[f.UserKey]; ok {
			idx.duplicates = append(idx.duplicates, f.UserKey)
			continue
		}
		entry := &facetEntry{facet: f, classes: make(map[string]Class, len(f.Classes))}
		for _, c := range f.Classes {
			if _, ok := entry.classes[c.UserKey]; ok {
				idx.duplicates = append(idx.duplicates, f.UserKey+"/"+c.UserKey)
				continue
			}
			entry.classes[c.UserKey] = c
		}
		idx.facets[f.UserKey] = entry
	}
	return idx
}

// Facet returns the facet with the given user key.
func (idx *Index) Facet(userKey string) (Facet, bool) {
	entry, ok := idx.facets[userKey]
	if !ok {
		return Facet{}, false
	}
	return entry.facet, true
}

// Class returns the class with the given user key under the given facet.
func (idx *Index) Class(facetKey, classKey string) (Class, bool) {
	entry, ok := idx.facets[facetKey]
	if !ok {
		return Class{}, false
	}
	c, ok := entry.classes[classKey]
	return c, ok
}

// Len returns the number of distinct facets.
func (idx *Index) Len() int {
	return len(idx.facets)
}

// Duplicates returns the facet keys and facet/class key pairs that occurred
// more than once in the indexed tree.
func (idx *Index) Duplicates() []string {
	return idx.duplicates
}
