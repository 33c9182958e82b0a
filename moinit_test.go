package moinit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/moinit/internal/graphql"
	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/initconfig"
	"github.com/agentstation/moinit/pkg/reconciler"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

type fakeClass struct {
	UUID    string `json:"uuid"`
	UserKey string `json:"user_key"`
	Name    string `json:"name"`
	Scope   string `json:"scope"`
}

type fakeFacet struct {
	UUID    string
	UserKey string
	Classes []fakeClass
}

// fakeMO serves MO's GraphQL API from memory.
type fakeMO struct {
	mu      sync.Mutex
	org     *string
	facets  []*fakeFacet
	ops     []string
	authHdr string
}

func (f *fakeMO) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authHdr = r.Header.Get("Authorization")
	var req graphql.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.ops = append(f.ops, req.OperationName)

	data, gqlErr := f.handle(req)
	resp := map[string]any{"data": data}
	if gqlErr != "" {
		resp = map[string]any{"data": nil, "errors": []map[string]any{{"message": gqlErr}}}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeMO) facet(id string) *fakeFacet {
	for _, facet := range f.facets {
		if facet.UUID == id {
			return facet
		}
	}
	return nil
}

func (f *fakeMO) handle(req graphql.Request) (any, string) {
	vars := req.Variables
	switch req.OperationName {
	case "RootOrgQuery":
		if f.org == nil {
			return nil, "ErrorCodes.E_ORG_UNCONFIGURED"
		}
		return map[string]any{"org": map[string]any{"uuid": *f.org, "name": "Kolding Kommune", "user_key": "kolding"}}, ""
	case "OrgCreate":
		id := uuid.NewString()
		f.org = &id
		return map[string]any{"org_create": map[string]any{"uuid": id}}, ""
	case "FacetsQuery":
		objects := []any{}
		for _, facet := range f.facets {
			objects = append(objects, map[string]any{"current": map[string]any{"uuid": facet.UUID, "user_key": facet.UserKey}})
		}
		return map[string]any{"facets": map[string]any{"objects": objects}}, ""
	case "ClassesQuery":
		facetUUID := vars["facet_uuids"].([]any)[0].(string)
		objects := []any{}
		if facet := f.facet(facetUUID); facet != nil {
			for _, c := range facet.Classes {
				objects = append(objects, map[string]any{"current": c})
			}
		}
		return map[string]any{"classes": map[string]any{"objects": objects}}, ""
	case "ClassCreate":
		facet := f.facet(vars["facet_uuid"].(string))
		if facet == nil {
			return nil, "facet not found"
		}
		c := fakeClass{UUID: uuid.NewString(), UserKey: vars["user_key"].(string), Name: vars["name"].(string), Scope: vars["scope"].(string)}
		facet.Classes = append(facet.Classes, c)
		return map[string]any{"class_create": map[string]any{"uuid": c.UUID}}, ""
	case "ClassUpdate":
		facet := f.facet(vars["facet_uuid"].(string))
		if facet == nil {
			return nil, "facet not found"
		}
		for i := range facet.Classes {
			if facet.Classes[i].UUID == vars["uuid"].(string) {
				facet.Classes[i] = fakeClass{UUID: facet.Classes[i].UUID, UserKey: vars["user_key"].(string), Name: vars["name"].(string), Scope: vars["scope"].(string)}
				return map[string]any{"class_update": map[string]any{"uuid": facet.Classes[i].UUID}}, ""
			}
		}
		return nil, "class not found"
	}
	return nil, "unknown operation " + req.OperationName
}

func (f *fakeMO) operations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func newFakeMO() *fakeMO {
	return &fakeMO{facets: []*fakeFacet{
		{
			UUID:    "182df2a8-2594-4a3f-9103-a9894d5e0c36",
			UserKey: "engagement_type",
			Classes: []fakeClass{{UUID: "8acc5743-044b-4c82-9bb9-4e572d82b524", UserKey: "Ansat", Name: "Ansat", Scope: "TEXT"}},
		},
		{UUID: "2cc2dbc5-30dc-4955-8b9a-19fe32b41ce4", UserKey: "visibility"},
	}}
}

func newTestClient(t *testing.T, fake *fakeMO, opts ...Option) Client {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := New(append([]Option{WithMOURL(server.URL), WithBearerToken("secret")}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func desired() taxonomy.Desired {
	return taxonomy.Desired{
		{UserKey: "engagement_type", Classes: []taxonomy.DesiredClass{{UserKey: "Ansat", Title: "Updated Title", Scope: "Updated Scope"}}},
		{UserKey: "visibility", Classes: []taxonomy.DesiredClass{{UserKey: "Intern", Title: "New Internal Title", Scope: "NEW INTERNAL SCOPE"}}},
	}
}

func TestEnsureClassesOverHTTP(t *testing.T) {
	fake := newFakeMO()
	client := newTestClient(t, fake)

	var created, updated []string
	client.OnClassCreated(func(facet taxonomy.Facet, class taxonomy.Class) {
		created = append(created, facet.UserKey+"/"+class.UserKey)
		assert.NotEqual(t, uuid.Nil, class.UUID)
	})
	client.OnClassUpdated(func(facet taxonomy.Facet, class taxonomy.Class) {
		updated = append(updated, facet.UserKey+"/"+class.UserKey)
	})

	result, err := client.EnsureClasses(context.Background(), desired())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created())
	assert.Equal(t, 1, result.Updated())
	assert.Equal(t, []string{"visibility/Intern"}, created)
	assert.Equal(t, []string{"engagement_type/Ansat"}, updated)
	assert.Equal(t, "Bearer secret", fake.authHdr)

	facets, err := client.Facets(context.Background())
	require.NoError(t, err)
	require.Len(t, facets, 2)
	assert.Equal(t, "Updated Title", facets[0].Classes[0].Name)
	require.Len(t, facets[1].Classes, 1)
	assert.Equal(t, "Intern", facets[1].Classes[0].UserKey)
	assert.Equal(t, taxonomy.Scope("NEW INTERNAL SCOPE"), facets[1].Classes[0].Scope)

	// A second run only updates.
	again, err := client.EnsureClasses(context.Background(), desired())
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created())
	assert.Equal(t, 2, again.Updated())
}

func TestEnsureClassesDryRunOverHTTP(t *testing.T) {
	fake := newFakeMO()
	client := newTestClient(t, fake, WithNestedFetch(false))

	result, err := client.EnsureClasses(context.Background(), desired(), reconciler.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Plan.Creates())
	assert.NotContains(t, fake.operations(), "ClassCreate")
	assert.NotContains(t, fake.operations(), "ClassUpdate")
}

func TestPlan(t *testing.T) {
	client := newTestClient(t, newFakeMO())

	plan, err := client.Plan(context.Background(), desired())
	require.NoError(t, err)
	require.Len(t, plan.Mutations, 2)
	assert.Equal(t, reconciler.ActionUpdate, plan.Mutations[0].Action)
	assert.Equal(t, reconciler.ActionCreate, plan.Mutations[1].Action)
}

func TestEnsureRootOrg(t *testing.T) {
	t.Run("creates when unconfigured", func(t *testing.T) {
		fake := newFakeMO()
		client := newTestClient(t, fake)

		org, err := client.RootOrg(context.Background())
		require.NoError(t, err)
		assert.Nil(t, org)

		org, created, err := client.EnsureRootOrg(context.Background(),
			&initconfig.RootOrganisation{Name: "Kolding Kommune", UserKey: "kolding", MunicipalityCode: 621})
		require.NoError(t, err)
		assert.True(t, created)
		require.NotNil(t, org)
		assert.Equal(t, "Kolding Kommune", org.Name)
		assert.Equal(t, []string{"RootOrgQuery", "RootOrgQuery", "OrgCreate", "RootOrgQuery"}, fake.operations())
	})

	t.Run("keeps existing", func(t *testing.T) {
		fake := newFakeMO()
		existing := "3b866d97-0b1f-48e0-8078-686d96f430b3"
		fake.org = &existing
		client := newTestClient(t, fake)

		org, created, err := client.EnsureRootOrg(context.Background(), &initconfig.RootOrganisation{Name: "Other"})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, uuid.MustParse(existing), org.UUID)
		assert.NotContains(t, fake.operations(), "OrgCreate")
	})

	t.Run("absent without configuration", func(t *testing.T) {
		client := newTestClient(t, newFakeMO())

		org, created, err := client.EnsureRootOrg(context.Background(), nil)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Nil(t, org)
	})
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{name: "relative url", opt: WithMOURL("mo.example.com")},
		{name: "graphql version", opt: WithGraphQLVersion(0)},
		{name: "concurrency", opt: WithMaxConcurrency(-1)},
		{name: "timeout", opt: WithHTTPTimeout(-1)},
		{name: "nil observer", opt: WithObserver(nil)},
		{name: "credentials", opt: WithClientCredentials(transportCreds(""))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.opt)
			assert.Nil(t, client)
			assert.True(t, errors.IsValidationError(err))
			assert.True(t, errors.IsConfigError(err))
		})
	}
}

func TestClosedClient(t *testing.T) {
	client := newTestClient(t, newFakeMO())
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, err := client.Facets(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	_, err = client.EnsureClasses(context.Background(), desired())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestWithExecutor(t *testing.T) {
	var ops []string
	exec := graphql.ExecutorFunc(func(_ context.Context, req graphql.Request, out any) error {
		ops = append(ops, req.OperationName)
		return json.Unmarshal([]byte(`{"facets":{"objects":[]}}`), out)
	})

	client, err := New(withExecutor(exec), WithNestedFetch(true))
	require.NoError(t, err)
	facets, err := client.Facets(context.Background())
	require.NoError(t, err)
	assert.Empty(t, facets)
	assert.Equal(t, []string{"FacetsWithClassesQuery"}, ops)
}
