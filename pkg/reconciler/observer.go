package reconciler

import (
	"context"

	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Observer is notified after each mutation MO has accepted. The class passed
// carries the UUID of the created or updated class.
type Observer interface {
	OnClassCreated(ctx context.Context, facet taxonomy.Facet, class taxonomy.Class)
	OnClassUpdated(ctx context.Context, facet taxonomy.Facet, class taxonomy.Class)
}

type nopObserver struct{}

func (nopObserver) OnClassCreated(context.Context, taxonomy.Facet, taxonomy.Class) {}
func (nopObserver) OnClassUpdated(context.Context, taxonomy.Facet, taxonomy.Class) {}
