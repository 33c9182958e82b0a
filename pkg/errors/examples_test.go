package errors_test

import (
	"fmt"

	"github.com/agentstation/moinit/pkg/errors"
)

// Example demonstrates translating MO's unconfigured root organisation into absence.
func Example() {
	err := errors.NewQueryError("RootOrgQuery", errors.QueryErrorEntry{
		Code:    errors.CodeOrgUnconfigured,
		Message: "ErrorCodes.E_ORG_UNCONFIGURED",
	})

	if errors.IsOrgUnconfigured(err) {
		fmt.Println("No root organisation yet")
	}

	// Output: No root organisation yet
}

// Example_missingFacet shows the error raised for a desired facet MO does not know.
func Example_missingFacet() {
	err := errors.NewMissingFacetError("engagement_type")

	if errors.IsConfigError(err) && errors.IsNotFound(err) {
		fmt.Println(err)
	}

	// Output: configuration error in facets: facet "engagement_type" does not exist in MO and must be created before its classes
}
