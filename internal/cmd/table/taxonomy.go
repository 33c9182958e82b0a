// Package table converts MO taxonomy values into table rows for CLI output.
package table

import (
	"strconv"

	"github.com/agentstation/moinit/pkg/reconciler"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// FacetsToTableData lists facets with their class count. With showClasses
// every class gets its own row under its facet.
func FacetsToTableData(facets []taxonomy.Facet, showClasses bool) Data {
	if !showClasses {
		rows := make([][]string, 0, len(facets))
		for _, f := range facets {
			rows = append(rows, []string{f.UserKey, f.UUID.String(), strconv.Itoa(len(f.Classes))})
		}
		return Data{
			Headers:         []string{"Facet", "UUID", "Classes"},
			Rows:            rows,
			ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight},
		}
	}

	var rows [][]string
	for _, f := range facets {
		for _, c := range f.Classes {
			rows = append(rows, []string{f.UserKey, c.UserKey, c.Name, c.Scope.String(), c.UUID.String()})
		}
	}
	return Data{
		Headers: []string{"Facet", "Class", "Name", "Scope", "UUID"},
		Rows:    rows,
	}
}

// PlanToTableData lists planned mutations in the order they are applied.
func PlanToTableData(plan *reconciler.Plan) Data {
	rows := make([][]string, 0, len(plan.Mutations))
	for _, m := range plan.Mutations {
		id := "-"
		if m.Action == reconciler.ActionUpdate {
			id = m.UUID.String()
		}
		rows = append(rows, []string{string(m.Action), m.FacetKey, m.UserKey, m.Name, m.Scope.String(), id})
	}
	return Data{
		Headers: []string{"Action", "Facet", "Class", "Name", "Scope", "UUID"},
		Rows:    rows,
	}
}

// OrgToTableData shows the root organisation as a key/value table.
func OrgToTableData(org *taxonomy.Organisation) Data {
	return Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Name", org.Name},
			{"User Key", org.UserKey},
			{"UUID", org.UUID.String()},
		},
	}
}
