// Package mo reads and writes MO's facet and class registry over GraphQL.
package mo

import (
	"context"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/agentstation/moinit/internal/graphql"
	"github.com/agentstation/moinit/pkg/constants"
	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/logging"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// FetchMode selects how classes are fetched.
type FetchMode string

const (
	// FetchPerFacet lists facets, then queries the classes of each facet concurrently.
	FetchPerFacet FetchMode = "per-facet"
	// FetchNested fetches facets with their classes embedded in a single query.
	FetchNested FetchMode = "nested"
)

// Client is the MO registry client. It is safe for concurrent use.
type Client struct {
	exec        graphql.Executor
	concurrency int
	mode        FetchMode
}

// Option configures a Client.
type Option func(*Client)

// WithMaxConcurrency bounds the number of in-flight class queries.
func WithMaxConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithFetchMode selects the class fetch strategy.
func WithFetchMode(mode FetchMode) Option {
	return func(c *Client) {
		if mode != "" {
			c.mode = mode
		}
	}
}

// NewClient creates a client that sends its documents through exec.
func NewClient(exec graphql.Executor, opts ...Option) *Client {
	c := &Client{
		exec:        exec,
		concurrency: constants.DefaultFetchConcurrency,
		mode:        FetchPerFacet,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RootOrg returns MO's root organisation, or nil when none is configured yet.
func (c *Client) RootOrg(ctx context.Context) (*taxonomy.Organisation, error) {
	var resp rootOrgResponse
	err := c.exec.Execute(ctx, graphql.Request{OperationName: "RootOrgQuery", Query: rootOrgQuery}, &resp)
	if errors.IsOrgUnconfigured(err) {
		logging.FromContext(ctx).Debug().Msg("Root organisation is not configured")
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapResource("fetch", "organisation", "", err)
	}
	if resp.Org == nil {
		return nil, nil
	}
	return resp.Org.toOrganisation()
}

// Facets returns every current facet with its classes. Facet and class order
// is the order MO returned them in.
func (c *Client) Facets(ctx context.Context) ([]taxonomy.Facet, error) {
	if c.mode == FetchNested {
		return c.facetsNested(ctx)
	}

	facets, err := c.listFacets(ctx)
	if err != nil {
		return nil, err
	}
	if len(facets) == 0 {
		return facets, nil
	}

	type facetClasses struct {
		facet   uuid.UUID
		classes []taxonomy.Class
	}

	p := pool.NewWithResults[facetClasses]().
		WithMaxGoroutines(c.concurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for _, f := range facets {
		f := f
		p.Go(func(ctx context.Context) (facetClasses, error) {
			classes, err := c.classes(ctx, f.UUID)
			if err != nil {
				return facetClasses{}, errors.WrapResource("fetch", "classes", f.UserKey, err)
			}
			return facetClasses{facet: f.UUID, classes: classes}, nil
		})
	}

	results, err := p.Wait()
	if err != nil {
		return nil, err
	}

	byFacet := make(map[uuid.UUID][]taxonomy.Class, len(results))
	for _, r := range results {
		byFacet[r.facet] = r.classes
	}
	for i := range facets {
		facets[i].Classes = byFacet[facets[i].UUID]
		if facets[i].Classes == nil {
			facets[i].Classes = []taxonomy.Class{}
		}
	}

	logging.FromContext(ctx).Debug().
		Int("facets", len(facets)).
		Int("concurrency", c.concurrency).
		Msg("Fetched facets and classes")
	return facets, nil
}

func (c *Client) listFacets(ctx context.Context) ([]taxonomy.Facet, error) {
	var resp facetsResponse
	if err := c.exec.Execute(ctx, graphql.Request{OperationName: "FacetsQuery", Query: facetsQuery}, &resp); err != nil {
		return nil, errors.WrapResource("fetch", "facets", "", err)
	}
	return resp.toFacets()
}

func (c *Client) classes(ctx context.Context, facet uuid.UUID) ([]taxonomy.Class, error) {
	var resp classesResponse
	req := graphql.Request{
		OperationName: "ClassesQuery",
		Query:         classesQuery,
		Variables:     map[string]any{"facet_uuids": []string{facet.String()}},
	}
	if err := c.exec.Execute(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.toClasses()
}

func (c *Client) facetsNested(ctx context.Context) ([]taxonomy.Facet, error) {
	var resp facetsResponse
	req := graphql.Request{OperationName: "FacetsWithClassesQuery", Query: facetsWithClassesQuery}
	if err := c.exec.Execute(ctx, req, &resp); err != nil {
		return nil, errors.WrapResource("fetch", "facets", "", err)
	}
	return resp.toFacets()
}
