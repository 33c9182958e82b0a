// Package taxonomy defines the MO classification model moinit reconciles:
// facets, the classes they own, and the desired configuration that describes
// which classes should exist.
//
// Facets and classes are identified in two ways. The UUID is assigned by MO
// and is opaque; the user key is the human-assigned natural key. Matching
// between desired and remote state is always done on user keys, and UUIDs are
// only ever copied from MO, never generated here.
package taxonomy
