package logging_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/moinit/pkg/logging"
)

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	parent := logging.WithLogger(context.Background(), testLogger.Logger)

	child := logging.WithFacet(parent, "visibility")

	logging.FromContext(parent).Info().Msg("parent")
	logging.FromContext(child).Info().Msg("child")

	lines := testLogger.Lines()
	if assert.Len(t, lines, 2) {
		assert.NotContains(t, lines[0], "visibility")
		assert.Contains(t, lines[1], `"facet":"visibility"`)
	}
}

func TestWithLoggerNilUsesDefault(t *testing.T) {
	ctx := logging.WithLogger(context.Background(), nil)
	assert.Same(t, logging.Default(), logging.FromContext(ctx))
}
