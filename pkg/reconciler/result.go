package reconciler

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of EnsureClasses. On failure it still reports the
// mutations applied before the failing one.
type Result struct {
	Plan    *Plan      `json:"plan" yaml:"plan"`
	Applied []Mutation `json:"applied" yaml:"applied"`
	DryRun  bool       `json:"dry_run" yaml:"dry_run"`

	FacetsFetched int           `json:"facets_fetched" yaml:"facets_fetched"`
	Duplicates    []string      `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
}

// Created returns the number of classes created.
func (r *Result) Created() int {
	return r.countApplied(ActionCreate)
}

// Updated returns the number of classes updated.
func (r *Result) Updated() int {
	return r.countApplied(ActionUpdate)
}

func (r *Result) countApplied(action Action) int {
	n := 0
	for _, m := range r.Applied {
		if m.Action == action {
			n++
		}
	}
	return n
}

// Complete reports whether every planned mutation was applied.
func (r *Result) Complete() bool {
	return r.Plan != nil && !r.DryRun && len(r.Applied) == len(r.Plan.Mutations)
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.Plan == nil {
		return "No plan computed"
	}

	var parts []string
	if r.DryRun {
		parts = append(parts, fmt.Sprintf("Dry run: would create %d and update %d classes",
			r.Plan.Creates(), r.Plan.Updates()))
	} else {
		parts = append(parts, fmt.Sprintf("Created %d and updated %d classes", r.Created(), r.Updated()))
		if !r.Complete() {
			parts = append(parts, fmt.Sprintf("(%d of %d planned mutations applied)",
				len(r.Applied), len(r.Plan.Mutations)))
		}
	}
	if len(r.Plan.SkippedFacets) > 0 {
		parts = append(parts, fmt.Sprintf("skipped missing facets: %s", strings.Join(r.Plan.SkippedFacets, ", ")))
	}
	return strings.Join(parts, "; ")
}
