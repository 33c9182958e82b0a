package mo

// GraphQL documents sent to MO. Field selections match the decoding types in
// decode.go.
const (
	rootOrgQuery = `
query RootOrgQuery {
  org {
    uuid
    name
    user_key
  }
}`

	facetsQuery = `
query FacetsQuery {
  facets {
    objects {
      current {
        uuid
        user_key
      }
    }
  }
}`

	classesQuery = `
query ClassesQuery($facet_uuids: [UUID!]) {
  classes(filter: {facets: $facet_uuids}) {
    objects {
      current {
        uuid
        user_key
        name
        scope
      }
    }
  }
}`

	facetsWithClassesQuery = `
query FacetsWithClassesQuery {
  facets {
    objects {
      current {
        uuid
        user_key
        classes {
          uuid
          user_key
          name
          scope
        }
      }
    }
  }
}`

	classCreateMutation = `
mutation ClassCreate($facet_uuid: UUID!, $user_key: String!, $name: String!, $scope: String, $valid_from: DateTime!) {
  class_create(
    input: {facet_uuid: $facet_uuid, user_key: $user_key, name: $name, scope: $scope, validity: {from: $valid_from}}
  ) {
    uuid
  }
}`

	classUpdateMutation = `
mutation ClassUpdate($facet_uuid: UUID!, $uuid: UUID!, $user_key: String!, $name: String!, $scope: String, $valid_from: DateTime!) {
  class_update(
    input: {uuid: $uuid, facet_uuid: $facet_uuid, user_key: $user_key, name: $name, scope: $scope, validity: {from: $valid_from}}
  ) {
    uuid
  }
}`

	orgCreateMutation = `
mutation OrgCreate($municipality_code: Int) {
  org_create(input: {municipality_code: $municipality_code}) {
    uuid
  }
}`
)
