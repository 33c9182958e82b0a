package mo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/agentstation/moinit/pkg/errors"
	"github.com/agentstation/moinit/pkg/taxonomy"
)

// Wire shapes of MO's responses. UUIDs stay strings here so that a malformed
// identifier is reported as a parse error naming the offending object.

type rootOrgResponse struct {
	Org *orgObject `json:"org"`
}

type orgObject struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	UserKey string `json:"user_key"`
}

type facetsResponse struct {
	Facets struct {
		Objects []struct {
			Current *facetObject `json:"current"`
		} `json:"objects"`
	} `json:"facets"`
}

type facetObject struct {
	UUID    string        `json:"uuid"`
	UserKey string        `json:"user_key"`
	Classes []classObject `json:"classes"`
}

type classesResponse struct {
	Classes struct {
		Objects []struct {
			Current *classObject `json:"current"`
		} `json:"objects"`
	} `json:"classes"`
}

type classObject struct {
	UUID    string `json:"uuid"`
	UserKey string `json:"user_key"`
	Name    string `json:"name"`
	Scope   string `json:"scope"`
}

type uuidObject struct {
	UUID string `json:"uuid"`
}

func parseUUID(kind, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.NewParseError("uuid", "", fmt.Sprintf("%s uuid %q: %v", kind, value, err), err)
	}
	return id, nil
}

func (o orgObject) toOrganisation() (*taxonomy.Organisation, error) {
	id, err := parseUUID("organisation", o.UUID)
	if err != nil {
		return nil, err
	}
	return &taxonomy.Organisation{UUID: id, Name: o.Name, UserKey: o.UserKey}, nil
}

// toFacet converts a facet projection. Embedded classes are only present in
// the nested query.
func (o facetObject) toFacet() (taxonomy.Facet, error) {
	id, err := parseUUID("facet", o.UUID)
	if err != nil {
		return taxonomy.Facet{}, err
	}
	classes, err := toClasses(o.Classes)
	if err != nil {
		return taxonomy.Facet{}, err
	}
	return taxonomy.Facet{UUID: id, UserKey: o.UserKey, Classes: classes}, nil
}

func (o classObject) toClass() (taxonomy.Class, error) {
	id, err := parseUUID("class", o.UUID)
	if err != nil {
		return taxonomy.Class{}, err
	}
	return taxonomy.Class{
		UUID:    id,
		UserKey: o.UserKey,
		Name:    o.Name,
		Scope:   taxonomy.Scope(o.Scope),
	}, nil
}

func toClasses(objs []classObject) ([]taxonomy.Class, error) {
	classes := make([]taxonomy.Class, 0, len(objs))
	for _, o := range objs {
		c, err := o.toClass()
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, nil
}

func (r facetsResponse) toFacets() ([]taxonomy.Facet, error) {
	facets := make([]taxonomy.Facet, 0, len(r.Facets.Objects))
	for _, obj := range r.Facets.Objects {
		if obj.Current == nil {
			continue
		}
		f, err := obj.Current.toFacet()
		if err != nil {
			return nil, err
		}
		facets = append(facets, f)
	}
	return facets, nil
}

func (r classesResponse) toClasses() ([]taxonomy.Class, error) {
	objs := make([]classObject, 0, len(r.Classes.Objects))
	for _, obj := range r.Classes.Objects {
		if obj.Current == nil {
			continue
		}
		objs = append(objs, *obj.Current)
	}
	return toClasses(objs)
}
