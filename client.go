// Package moinit initializes an OS2mo ("MO") instance from a declarative
// configuration. It ensures the root organisation exists and that every
// configured class exists under its facet with the configured title and
// scope, creating or updating classes as needed. Runs are idempotent:
// repeating a run against an unchanged configuration only re-applies the
// same values.
//
// Example usage:
//
//	client, err := moinit.New(
//	    moinit.WithMOURL("https://mo.example.com"),
//	    moinit.WithClientCredentials(transport.ClientCredentials{
//	        AuthServer:   "https://keycloak.example.com/auth",
//	        Realm:        "mo",
//	        ClientID:     "dipex",
//	        ClientSecret: secret,
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	cfg, err := initconfig.Load("init.config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnClassCreated(func(facet taxonomy.Facet, class taxonomy.Class) {
//	    log.Printf("created %s/%s", facet.UserKey, class.UserKey)
//	})
//
//	result, err := client.EnsureClasses(ctx, cfg.Facets)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Summary())
package moinit

import (
	"context"
	"net/http"
	"sync"

	"github.com/agentstation/moinit/internal/graphql"
	"github.com/agentstation/moinit/internal/mo"
	"github.com/agentstation/moinit/internal/transport"
	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/initconfig"
	"github.com/agentstation/moinit/pkg/logging"
	"github.com/agentstation/moinit/pkg/reconciler"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// ErrClosed is returned by operations on a closed Client.
var ErrClosed = errors.New("moinit: client closed")

// Client initializes a MO instance.
type Client interface {
	// RootOrg returns the root organisation, or nil if MO has none yet.
	RootOrg(ctx context.Context) (*taxonomy.Organisation, error)

	// EnsureRootOrg creates the root organisation described by org if MO
	// has none. The bool result reports whether it was created. With a nil
	// org an absent root organisation yields nil without error.
	EnsureRootOrg(ctx context.Context, org *initconfig.RootOrganisation) (*taxonomy.Organisation, bool, error)

	// Facets returns MO's current facets with their classes.
	Facets(ctx context.Context) ([]taxonomy.Facet, error)

	// Plan returns the class mutations EnsureClasses would apply.
	Plan(ctx context.Context, desired taxonomy.Desired, opts ...reconciler.Option) (*reconciler.Plan, error)

	// EnsureClasses creates or updates every desired class.
	EnsureClasses(ctx context.Context, desired taxonomy.Desired, opts ...reconciler.Option) (*reconciler.Result, error)

	// OnClassCreated registers a callback for created classes
	OnClassCreated(ClassCreatedHook)

	// OnClassUpdated registers a callback for updated classes
	OnClassUpdated(ClassUpdatedHook)

	// Close releases the connections held by the client.
	Close() error
}

// client is the internal implementation of the Client interface
type client struct {
	config    *config
	mo        *mo.Client
	transport *transport.Client
	hooks     *hooks

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

// New creates a Client with the given options.
func New(opts ...Option) (Client, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{config: cfg, hooks: newHooks(cfg.observers...)}

	exec := cfg.executor
	if exec == nil {
		httpClient := cfg.httpClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: cfg.httpTimeout}
		}
		c.transport = transport.NewWithHTTPClient(httpClient, cfg.authenticator(httpClient))
		exec = graphql.NewClient(graphql.Endpoint(cfg.moURL, cfg.graphqlVersion), c.transport)
	}

	mode := mo.FetchPerFacet
	if cfg.nestedFetch {
		mode = mo.FetchNested
	}
	c.mo = mo.NewClient(exec, mo.WithMaxConcurrency(cfg.concurrency), mo.WithFetchMode(mode))

	return c, nil
}

func (c *client) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// RootOrg returns the root organisation, or nil if MO has none yet.
func (c *client) RootOrg(ctx context.Context) (*taxonomy.Organisation, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.mo.RootOrg(ctx)
}

// EnsureRootOrg creates the root organisation if MO has none.
func (c *client) EnsureRootOrg(ctx context.Context, org *initconfig.RootOrganisation) (*taxonomy.Organisation, bool, error) {
	if err := c.checkOpen(); err != nil {
		return nil, false, err
	}
	logger := logging.FromContext(ctx)

	existing, err := c.mo.RootOrg(ctx)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		logger.Debug().Str("uuid", existing.UUID.String()).Msg("Root organisation exists")
		return existing, false, nil
	}
	if org == nil {
		logger.Warn().Msg("Root organisation is not configured and no root_organisation is given")
		return nil, false, nil
	}

	id, err := c.mo.CreateRootOrg(ctx, org.MunicipalityCode)
	if err != nil {
		return nil, false, err
	}
	logger.Info().Str("uuid", id.String()).Int("municipality_code", org.MunicipalityCode).Msg("Created root organisation")

	created, err := c.mo.RootOrg(ctx)
	if err != nil {
		return nil, true, err
	}
	if created == nil {
		created = &taxonomy.Organisation{UUID: id, Name: org.Name, UserKey: org.UserKey}
	}
	return created, true, nil
}

// Facets returns MO's current facets with their classes.
func (c *client) Facets(ctx context.Context) ([]taxonomy.Facet, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	return c.mo.Facets(ctx)
}

func (c *client) reconciler(opts []reconciler.Option) (*reconciler.Reconciler, error) {
	all := make([]reconciler.Option, 0, len(opts)+1)
	all = append(all, reconciler.WithObserver(c.hooks))
	all = append(all, opts...)
	return reconciler.New(c.mo, c.mo, all...)
}

// Plan returns the class mutations EnsureClasses would apply.
func (c *client) Plan(ctx context.Context, desired taxonomy.Desired, opts ...reconciler.Option) (*reconciler.Plan, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	r, err := c.reconciler(opts)
	if err != nil {
		return nil, err
	}
	return r.Plan(ctx, desired)
}

// EnsureClasses creates or updates every desired class.
func (c *client) EnsureClasses(ctx context.Context, desired taxonomy.Desired, opts ...reconciler.Option) (*reconciler.Result, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	r, err := c.reconciler(opts)
	if err != nil {
		return nil, err
	}
	return r.EnsureClasses(logging.WithOperation(ctx, "ensure_classes"), desired)
}

// OnClassCreated registers a callback for created classes
func (c *client) OnClassCreated(fn ClassCreatedHook) {
	c.hooks.addClassCreated(fn)
}

// OnClassUpdated registers a callback for updated classes
func (c *client) OnClassUpdated(fn ClassUpdatedHook) {
	c.hooks.addClassUpdated(fn)
}

// Close releases the connections held by the client. It is safe to call
// more than once.
func (c *client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		if c.transport != nil {
			c.transport.CloseIdleConnections()
		}
	})
	return nil
}
