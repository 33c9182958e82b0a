// Package reconciler converges MO's classes on a desired configuration.
//
// A run fetches the current facet tree, plans one create or update per
// desired class matched by user key, and applies the plan sequentially. The
// whole plan is computed before the first write, so configuration errors such
// as a missing facet abort the run without touching MO. Classes that exist in
// MO but not in the configuration are never deleted.
package reconciler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/logging"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Fetcher returns MO's current facets with their classes.
type Fetcher interface {
	Facets(ctx context.Context) ([]taxonomy.Facet, error)
}

// Mutator writes classes to MO.
type Mutator interface {
	// CreateClass creates class under facet and returns the new class UUID.
	CreateClass(ctx context.Context, facet uuid.UUID, class taxonomy.Class) (uuid.UUID, error)
	// UpdateClass overwrites the class identified by class.UUID.
	UpdateClass(ctx context.Context, facet uuid.UUID, class taxonomy.Class) error
}

// Reconciler ensures desired classes exist in MO.
type Reconciler struct {
	fetcher Fetcher
	mutator Mutator
	opts    *options
}

// New creates a Reconciler reading through fetcher and writing through mutator.
func New(fetcher Fetcher, mutator Mutator, opts ...Option) (*Reconciler, error) {
	if fetcher == nil {
		return nil, &errors.ValidationError{Field: "fetcher", Message: "cannot be nil"}
	}
	if mutator == nil {
		return nil, &errors.ValidationError{Field: "mutator", Message: "cannot be nil"}
	}
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Reconciler{fetcher: fetcher, mutator: mutator, opts: o}, nil
}

// Plan fetches MO's current state and returns the mutations EnsureClasses
// would apply, without applying them.
func (r *Reconciler) Plan(ctx context.Context, desired taxonomy.Desired) (*Plan, error) {
	plan, _, err := r.plan(ctx, desired)
	return plan, err
}

func (r *Reconciler) plan(ctx context.Context, desired taxonomy.Desired) (*Plan, *Result, error) {
	logger := logging.FromContext(ctx)

	facets, err := r.fetcher.Facets(ctx)
	if err != nil {
		return nil, nil, err
	}
	index := taxonomy.NewIndex(facets)
	result := &Result{FacetsFetched: index.Len(), Duplicates: index.Duplicates(), DryRun: r.opts.dryRun}
	for _, dup := range result.Duplicates {
		logger.Warn().Str("key", dup).Msg("Duplicate user key in MO, using first occurrence")
	}

	plan, err := BuildPlan(index, desired, r.opts.skipMissingFacets)
	if err != nil {
		return nil, result, err
	}
	for _, facet := range plan.SkippedFacets {
		logger.Warn().Str("facet", facet).Msg("Facet does not exist in MO, skipping its classes")
	}
	result.Plan = plan
	return plan, result, nil
}

// EnsureClasses creates or updates every desired class. The first failing
// mutation aborts the run; mutations applied before it are reported in the
// returned Result and are not rolled back.
func (r *Reconciler) EnsureClasses(ctx context.Context, desired taxonomy.Desired) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	plan, result, err := r.plan(ctx, desired)
	if err != nil {
		if result != nil {
			result.Duration = time.Since(start)
		}
		return result, err
	}

	logger.Info().
		Int("facets", result.FacetsFetched).
		Int("creates", plan.Creates()).
		Int("updates", plan.Updates()).
		Bool("dry_run", r.opts.dryRun).
		Msg("Planned class mutations")

	if r.opts.dryRun {
		result.Duration = time.Since(start)
		return result, nil
	}

	result.Applied = make([]Mutation, 0, len(plan.Mutations))
	for _, m := range plan.Mutations {
		applied, err := r.apply(ctx, m)
		if err != nil {
			result.Duration = time.Since(start)
			return result, errors.WrapResource(string(m.Action), "class", m.ID(), err)
		}
		result.Applied = append(result.Applied, applied)
	}

	result.Duration = time.Since(start)
	logger.Info().
		Int("created", result.Created()).
		Int("updated", result.Updated()).
		Dur("duration", result.Duration).
		Msg("Classes ensured")
	return result, nil
}

func (r *Reconciler) apply(ctx context.Context, m Mutation) (Mutation, error) {
	ctx = logging.WithClass(logging.WithFacet(ctx, m.FacetKey), m.UserKey)
	logger := logging.FromContext(ctx)
	facet := taxonomy.Facet{UUID: m.FacetUUID, UserKey: m.FacetKey}

	switch m.Action {
	case ActionUpdate:
		if err := r.mutator.UpdateClass(ctx, m.FacetUUID, m.Class()); err != nil {
			return m, err
		}
		logger.Debug().Str("uuid", m.UUID.String()).Msg("Updated class")
		r.opts.observer.OnClassUpdated(ctx, facet, m.Class())
	case ActionCreate:
		id, err := r.mutator.CreateClass(ctx, m.FacetUUID, m.Class())
		if err != nil {
			return m, err
		}
		m.UUID = id
		logger.Debug().Str("uuid", id.String()).Msg("Created class")
		r.opts.observer.OnClassCreated(ctx, facet, m.Class())
	default:
		return m, &errors.ValidationError{Field: "action", Value: m.Action, Message: "unknown mutation action"}
	}
	return m, nil
}
