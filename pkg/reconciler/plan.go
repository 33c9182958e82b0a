package reconciler

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Action is the kind of write a Mutation performs.
type Action string

// Actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// Mutation is a single planned class write.
type Mutation struct {
	Action    Action         `json:"action" yaml:"action"`
	FacetKey  string         `json:"facet" yaml:"facet"`
	FacetUUID uuid.UUID      `json:"facet_uuid" yaml:"facet_uuid"`
	UUID      uuid.UUID      `json:"uuid,omitzero" yaml:"uuid,omitempty"` // nil for creates
	UserKey   string         `json:"user_key" yaml:"user_key"`
	Name      string         `json:"name" yaml:"name"`
	Scope     taxonomy.Scope `json:"scope" yaml:"scope"`
}

// ID returns the facet/class identity of the mutation.
func (m Mutation) ID() string {
	return m.FacetKey + "/" + m.UserKey
}

// Class returns the class as it will exist in MO after the mutation.
func (m Mutation) Class() taxonomy.Class {
	return taxonomy.Class{UUID: m.UUID, UserKey: m.UserKey, Name: m.Name, Scope: m.Scope}
}

// String implements fmt.Stringer.
func (m Mutation) String() string {
	if m.Action == ActionUpdate {
		return fmt.Sprintf("update %s (%s) name=%q scope=%s", m.ID(), m.UUID, m.Name, m.Scope)
	}
	return fmt.Sprintf("create %s name=%q scope=%s", m.ID(), m.Name, m.Scope)
}

// Plan is the ordered list of mutations that converges MO on the desired
// state, along with the desired facets that were skipped.
type Plan struct {
	Mutations     []Mutation `json:"mutations" yaml:"mutations"`
	SkippedFacets []string   `json:"skipped_facets,omitempty" yaml:"skipped_facets,omitempty"`
}

// Creates returns the number of planned creates.
func (p *Plan) Creates() int {
	return p.count(ActionCreate)
}

// Updates returns the number of planned updates.
func (p *Plan) Updates() int {
	return p.count(ActionUpdate)
}

func (p *Plan) count(action Action) int {
	n := 0
	for _, m := range p.Mutations {
		if m.Action == action {
			n++
		}
	}
	return n
}

// BuildPlan matches desired classes against the remote index by user key.
// Mutations follow desired facet order, then desired class order within each
// facet. Remote classes that are not desired produce no mutation.
//
// A desired class without a scope keeps the remote scope on update and is
// created with taxonomy.ScopeText.
//
// A desired facet missing from MO is an error unless skipMissing is set, in
// which case it is recorded in Plan.SkippedFacets.
func BuildPlan(remote *taxonomy.Index, desired taxonomy.Desired, skipMissing bool) (*Plan, error) {
	plan := &Plan{Mutations: make([]Mutation, 0, desired.Len())}

	for _, df := range desired {
		facet, ok := remote.Facet(df.UserKey)
		if !ok {
			if skipMissing {
				plan.SkippedFacets = append(plan.SkippedFacets, df.UserKey)
				continue
			}
			return nil, errors.NewMissingFacetError(df.UserKey)
		}

		for _, dc := range df.Classes {
			m := Mutation{
				Action:    ActionCreate,
				FacetKey:  facet.UserKey,
				FacetUUID: facet.UUID,
				UserKey:   dc.UserKey,
				Name:      dc.Title,
				Scope:     dc.Scope,
			}
			if existing, ok := remote.Class(df.UserKey, dc.UserKey); ok {
				m.Action = ActionUpdate
				m.UUID = existing.UUID
				if m.Scope == "" {
					m.Scope = existing.Scope
				}
			} else if m.Scope == "" {
				m.Scope = taxonomy.ScopeText
			}
			plan.Mutations = append(plan.Mutations, m)
		}
	}

	return plan, nil
}
