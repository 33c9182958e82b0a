package reconciler

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/agentstation/moinit/pkg/taxonomy"
)

// call is a recorded mutation as MO would receive it.
type call struct {
	Op        string
	FacetUUID uuid.UUID
	UUID      uuid.UUID
	UserKey   string
	Name      string
	Scope     taxonomy.Scope
}

// fakeMO is an in-memory MO holding a facet tree. Mutations change the tree,
// so a second run observes the first run's writes.
type fakeMO struct {
	facets  []taxonomy.Facet
	calls   []call
	fetches int

	fetchErr error
	// failOn makes the mutation for the given class user key fail.
	failOn  string
	failErr error
}

func newFakeMO(facets ...taxonomy.Facet) *fakeMO {
	return &fakeMO{facets: facets}
}

func (f *fakeMO) Facets(context.Context) ([]taxonomy.Facet, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]taxonomy.Facet, len(f.facets))
	for i, facet := range f.facets {
		out[i] = facet
		out[i].Classes = append([]taxonomy.Class(nil), facet.Classes...)
	}
	return out, nil
}

func (f *fakeMO) facet(id uuid.UUID) (*taxonomy.Facet, error) {
	for i := range f.facets {
		if f.facets[i].UUID == id {
			return &f.facets[i], nil
		}
	}
	return nil, fmt.Errorf("facet %s does not exist", id)
}

func (f *fakeMO) CreateClass(_ context.Context, facetUUID uuid.UUID, class taxonomy.Class) (uuid.UUID, error) {
	f.calls = append(f.calls, call{Op: "create", FacetUUID: facetUUID, UserKey: class.UserKey, Name: class.Name, Scope: class.Scope})
	if f.failOn == class.UserKey {
		return uuid.Nil, f.failErr
	}
	facet, err := f.facet(facetUUID)
	if err != nil {
		return uuid.Nil, err
	}
	class.UUID = uuid.New()
	facet.Classes = append(facet.Classes, class)
	return class.UUID, nil
}

func (f *fakeMO) UpdateClass(_ context.Context, facetUUID uuid.UUID, class taxonomy.Class) error {
	f.calls = append(f.calls, call{Op: "update", FacetUUID: facetUUID, UUID: class.UUID, UserKey: class.UserKey, Name: class.Name, Scope: class.Scope})
	if f.failOn == class.UserKey {
		return f.failErr
	}
	facet, err := f.facet(facetUUID)
	if err != nil {
		return err
	}
	for i := range facet.Classes {
		if facet.Classes[i].UUID == class.UUID {
			facet.Classes[i] = class
			return nil
		}
	}
	return fmt.Errorf("class %s does not exist", class.UUID)
}

// recordingObserver records observer callbacks.
type recordingObserver struct {
	created []string
	updated []string
}

func (o *recordingObserver) OnClassCreated(_ context.Context, facet taxonomy.Facet, class taxonomy.Class) {
	o.created = append(o.created, facet.UserKey+"/"+class.UserKey)
}

func (o *recordingObserver) OnClassUpdated(_ context.Context, facet taxonomy.Facet, class taxonomy.Class) {
	o.updated = append(o.updated, facet.UserKey+"/"+class.UserKey)
}
