// Package graphql executes GraphQL documents against MO over the
// authenticated transport and decodes the results into typed values.
package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/agentstation/moinit/internal/transport"
	"github.com/agentstation/moinit/pkg/errors"
)

// Request is a GraphQL query or mutation.
type Request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Executor executes GraphQL requests. On success the response data is
// decoded into out, which may be nil when the result is not needed.
type Executor interface {
	Execute(ctx context.Context, req Request, out any) error
}

// ExecutorFunc allows functions to implement Executor.
type ExecutorFunc func(ctx context.Context, req Request, out any) error

// Execute implements the Executor interface.
func (f ExecutorFunc) Execute(ctx context.Context, req Request, out any) error {
	return f(ctx, req, out)
}

// Client executes requests against a single GraphQL endpoint.
type Client struct {
	endpoint  string
	transport *transport.Client
}

// NewClient creates a client for endpoint.
func NewClient(endpoint string, t *transport.Client) *Client {
	return &Client{endpoint: endpoint, transport: t}
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Endpoint builds MO's versioned GraphQL endpoint from its base URL.
func Endpoint(baseURL string, version int) string {
	return fmt.Sprintf("%s/graphql/v%d", strings.TrimRight(baseURL, "/"), version)
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []responseError `json:"errors"`
}

type responseError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

// Execute implements the Executor interface.
func (c *Client) Execute(ctx context.Context, req Request, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return errors.WrapParse("json", "", err)
	}

	resp, err := c.transport.PostJSON(ctx, c.endpoint, body)
	if err != nil {
		return err
	}

	raw, err := transport.ReadResponse(resp)
	if err != nil {
		// MO reports GraphQL errors with a non-2xx status on some versions;
		// prefer the structured errors when the body carries them.
		if qerr := decodeErrors(req.OperationName, raw); qerr != nil {
			return qerr
		}
		return err
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return errors.WrapParse("json", "", err)
	}
	if len(r.Errors) > 0 {
		return newQueryError(req.OperationName, r.Errors)
	}

	if out == nil || len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return errors.WrapParse("json", "", err)
	}
	return nil
}

func decodeErrors(operation string, raw []byte) error {
	var r response
	if len(raw) == 0 || json.Unmarshal(raw, &r) != nil || len(r.Errors) == 0 {
		return nil
	}
	return newQueryError(operation, r.Errors)
}

func newQueryError(operation string, errs []responseError) *errors.QueryError {
	entries := make([]errors.QueryErrorEntry, 0, len(errs))
	for _, e := range errs {
		entries = append(entries, errors.QueryErrorEntry{Code: errorCode(e), Message: e.Message})
	}
	return errors.NewQueryError(operation, entries...)
}

// errorCode extracts MO's error code. Newer MO versions set extensions.code;
// older ones only render the enum as the message, e.g.
// "ErrorCodes.E_ORG_UNCONFIGURED".
func errorCode(e responseError) string {
	for _, key := range []string{"code", "error_key"} {
		if code, ok := e.Extensions[key].(string); ok && code != "" {
			return code
		}
	}
	if code, ok := strings.CutPrefix(e.Message, "ErrorCodes."); ok {
		return code
	}
	return ""
}
