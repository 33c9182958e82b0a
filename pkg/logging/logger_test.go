package logging_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/moinit/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(original)
		zerolog.SetGlobalLevel(originalLevel)
	})

	buf := &bytes.Buffer{}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	output := buf.String()
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.Contains(t, output, msg)
	}
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithFacet(ctx, "engagement_type")
	ctx = logging.WithClass(ctx, "Ansat")
	ctx = logging.WithOperation(ctx, "update")

	logging.FromContext(ctx).Info().Msg("test message")

	testLogger.AssertContains(t, `"facet":"engagement_type"`)
	testLogger.AssertContains(t, `"class":"Ansat"`)
	testLogger.AssertContains(t, `"operation":"update"`)
	testLogger.AssertContains(t, "test message")
	assert.Len(t, testLogger.Lines(), 1)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	//nolint:staticcheck
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.Ctx(context.Background()))
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	tests := []struct {
		name      string
		level     string
		format    string
		logFunc   func(l zerolog.Logger)
		wantLog   bool
		wantToken string
	}{
		{
			name:      "json info",
			level:     "info",
			format:    "json",
			logFunc:   func(l zerolog.Logger) { l.Info().Msg("hello") },
			wantLog:   true,
			wantToken: `"level":"info"`,
		},
		{
			name:    "debug below warn",
			level:   "warn",
			format:  "json",
			logFunc: func(l zerolog.Logger) { l.Debug().Msg("hello") },
			wantLog: false,
		},
		{
			name:      "console format",
			level:     "info",
			format:    "console",
			logFunc:   func(l zerolog.Logger) { l.Info().Msg("hello") },
			wantLog:   true,
			wantToken: "INF",
		},
		{
			name:      "auto format writes json to a regular file",
			level:     "info",
			format:    "auto",
			logFunc:   func(l zerolog.Logger) { l.Info().Msg("hello") },
			wantLog:   true,
			wantToken: `"level":"info"`,
		},
		{
			name:      "invalid level falls back to info",
			level:     "loud",
			format:    "json",
			logFunc:   func(l zerolog.Logger) { l.Info().Msg("hello") },
			wantLog:   true,
			wantToken: `"level":"info"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := t.TempDir() + "/log.txt"
			logger := logging.NewLoggerFromConfig(&logging.Config{
				Level:   tt.level,
				Format:  tt.format,
				Output:  path,
				NoColor: true,
			})
			tt.logFunc(logger)

			content, err := os.ReadFile(path)
			if !tt.wantLog {
				// OpenFile creates the file even when nothing is written
				require.NoError(t, err)
				assert.Empty(t, strings.TrimSpace(string(content)))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, string(content), "hello")
			assert.Contains(t, string(content), tt.wantToken)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}
