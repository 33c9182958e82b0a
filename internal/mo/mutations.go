package mo

import (
	"context"

	"github.com/google/uuid"

	"github.com/agentstation/moinit/internal/graphql"
	"github.com/agentstation/moinit/pkg/constants"
	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

type classCreateResponse struct {
	ClassCreate uuidObject `json:"class_create"`
}

type classUpdateResponse struct {
	ClassUpdate uuidObject `json:"class_update"`
}

type orgCreateResponse struct {
	OrgCreate uuidObject `json:"org_create"`
}

// CreateClass creates a class under facet and returns the UUID MO assigned.
// The UUID of in is ignored.
func (c *Client) CreateClass(ctx context.Context, facet uuid.UUID, in taxonomy.Class) (uuid.UUID, error) {
	req := graphql.Request{
		OperationName: "ClassCreate",
		Query:         classCreateMutation,
		Variables: map[string]any{
			"facet_uuid": facet.String(),
			"user_key":   in.UserKey,
			"name":       in.Name,
			"scope":      in.Scope.String(),
			"valid_from": constants.ClassValidFrom,
		},
	}
	var resp classCreateResponse
	if err := c.exec.Execute(ctx, req, &resp); err != nil {
		return uuid.Nil, err
	}
	return parseUUID("class", resp.ClassCreate.UUID)
}

// UpdateClass overwrites the writable fields of the class identified by in.UUID.
func (c *Client) UpdateClass(ctx context.Context, facet uuid.UUID, in taxonomy.Class) error {
	req := graphql.Request{
		OperationName: "ClassUpdate",
		Query:         classUpdateMutation,
		Variables: map[string]any{
			"facet_uuid": facet.String(),
			"uuid":       in.UUID.String(),
			"user_key":   in.UserKey,
			"name":       in.Name,
			"scope":      in.Scope.String(),
			"valid_from": constants.ClassValidFrom,
		},
	}
	var resp classUpdateResponse
	return c.exec.Execute(ctx, req, &resp)
}

// CreateRootOrg creates MO's root organisation. A zero municipality code is
// sent as null.
func (c *Client) CreateRootOrg(ctx context.Context, municipalityCode int) (uuid.UUID, error) {
	var code any
	if municipalityCode != 0 {
		code = municipalityCode
	}
	req := graphql.Request{
		OperationName: "OrgCreate",
		Query:         orgCreateMutation,
		Variables:     map[string]any{"municipality_code": code},
	}
	var resp orgCreateResponse
	if err := c.exec.Execute(ctx, req, &resp); err != nil {
		return uuid.Nil, errors.WrapResource("create", "organisation", "", err)
	}
	return parseUUID("organisation", resp.OrgCreate.UUID)
}
