package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/moinit/internal/transport"
	"github.com/agentstation/moinit/pkg/errors"
)

func newTestClient(t *testing.T, status int, body string, capture *Request) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/graphql/v22", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		if capture != nil {
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, capture))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return NewClient(Endpoint(server.URL, 22), transport.New(&transport.BearerAuth{Token: "token"}))
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "http://mo:5000/graphql/v22", Endpoint("http://mo:5000/", 22))
	assert.Equal(t, "https://mo.example.com/graphql/v7", Endpoint("https://mo.example.com", 7))
}

func TestExecuteDecodesData(t *testing.T) {
	var captured Request
	client := newTestClient(t, http.StatusOK, `{"data":{"org":{"uuid":"3b866d97-0b1f-48e0-8078-686d96f430b3"}}}`, &captured)

	var out struct {
		Org struct {
			UUID string `json:"uuid"`
		} `json:"org"`
	}
	err := client.Execute(context.Background(), Request{
		OperationName: "RootOrgQuery",
		Query:         "query RootOrgQuery { org { uuid } }",
		Variables:     map[string]any{"limit": 1},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "3b866d97-0b1f-48e0-8078-686d96f430b3", out.Org.UUID)
	assert.Equal(t, "RootOrgQuery", captured.OperationName)
	assert.Equal(t, "query RootOrgQuery { org { uuid } }", captured.Query)
	assert.Equal(t, map[string]any{"limit": float64(1)}, captured.Variables)
}

func TestExecuteNilOut(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"data":{"class_create":{"uuid":"x"}}}`, nil)
	assert.NoError(t, client.Execute(context.Background(), Request{Query: "mutation {}"}, nil))
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "graphql error with message code",
			status: http.StatusOK,
			body:   `{"data":null,"errors":[{"message":"ErrorCodes.E_ORG_UNCONFIGURED"}]}`,
			check: func(t *testing.T, err error) {
				var qerr *errors.QueryError
				require.ErrorAs(t, err, &qerr)
				assert.Equal(t, errors.CodeOrgUnconfigured, qerr.Code())
				assert.True(t, errors.IsOrgUnconfigured(err))
			},
		},
		{
			name:   "graphql error with extensions code",
			status: http.StatusOK,
			body:   `{"errors":[{"message":"Organisation not configured","extensions":{"code":"E_ORG_UNCONFIGURED"}}]}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsOrgUnconfigured(err))
			},
		},
		{
			name:   "graphql error in non-200 body",
			status: http.StatusBadRequest,
			body:   `{"errors":[{"message":"Variable '$uuid' got invalid value"}]}`,
			check: func(t *testing.T, err error) {
				var qerr *errors.QueryError
				require.ErrorAs(t, err, &qerr)
				require.Len(t, qerr.Entries, 1)
				assert.Equal(t, "", qerr.Entries[0].Code)
				assert.Equal(t, "Variable '$uuid' got invalid value", qerr.Entries[0].Message)
			},
		},
		{
			name:   "http error without graphql errors",
			status: http.StatusServiceUnavailable,
			body:   `upstream connect error`,
			check: func(t *testing.T, err error) {
				var apiErr *errors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
			},
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `{"data": {"org": `,
			check: func(t *testing.T, err error) {
				var parseErr *errors.ParseError
				require.ErrorAs(t, err, &parseErr)
				assert.Equal(t, "json", parseErr.Format)
			},
		},
		{
			name:   "data does not match target",
			status: http.StatusOK,
			body:   `{"data":{"org":{"uuid":42}}}`,
			check: func(t *testing.T, err error) {
				var parseErr *errors.ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.status, tt.body, nil)
			var out struct {
				Org struct {
					UUID string `json:"uuid"`
				} `json:"org"`
			}
			err := client.Execute(context.Background(), Request{OperationName: "RootOrgQuery", Query: "q"}, &out)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestExecutorFunc(t *testing.T) {
	called := false
	var exec Executor = ExecutorFunc(func(ctx context.Context, req Request, out any) error {
		called = true
		assert.Equal(t, "q", req.Query)
		return nil
	})
	require.NoError(t, exec.Execute(context.Background(), Request{Query: "q"}, nil))
	assert.True(t, called)
}
