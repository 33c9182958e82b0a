package moinit

import (
	"context"
	"sync"

	"github.com/agentstation/moinit/pkg/reconciler"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Hook function types for class events
type (
	// ClassCreatedHook is called after MO has created a class. The class
	// carries the UUID MO assigned.
	ClassCreatedHook func(facet taxonomy.Facet, class taxonomy.Class)

	// ClassUpdatedHook is called after MO has updated a class
	ClassUpdatedHook func(facet taxonomy.Facet, class taxonomy.Class)
)

// hooks manages event callbacks for class writes and forwards them to the
// configured observers. It is the observer handed to the reconciler.
type hooks struct {
	mu             sync.RWMutex
	onClassCreated []ClassCreatedHook
	onClassUpdated []ClassUpdatedHook
	observers      []reconciler.Observer
}

var _ reconciler.Observer = (*hooks)(nil)

// newHooks creates a new hooks instance
func newHooks(observers ...reconciler.Observer) *hooks {
	return &hooks{observers: observers}
}

// addClassCreated registers a callback for created classes
func (h *hooks) addClassCreated(fn ClassCreatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClassCreated = append(h.onClassCreated, fn)
}

// addClassUpdated registers a callback for updated classes
func (h *hooks) addClassUpdated(fn ClassUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onClassUpdated = append(h.onClassUpdated, fn)
}

// OnClassCreated implements reconciler.Observer.
func (h *hooks) OnClassCreated(ctx context.Context, facet taxonomy.Facet, class taxonomy.Class) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.observers {
		o.OnClassCreated(ctx, facet, class)
	}
	for _, hook := range h.onClassCreated {
		hook(facet, class)
	}
}

// OnClassUpdated implements reconciler.Observer.
func (h *hooks) OnClassUpdated(ctx context.Context, facet taxonomy.Facet, class taxonomy.Class) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, o := range h.observers {
		o.OnClassUpdated(ctx, facet, class)
	}
	for _, hook := range h.onClassUpdated {
		hook(facet, class)
	}
}
