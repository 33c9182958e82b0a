// Package run implements the run command, which initializes MO from an init
// configuration file.
package run

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/moinit"
	"github.com/agentstation/moinit/internal/cmd/application"
	"github.com/agentstation/moinit/internal/cmd/output"
	"github.com/agentstation/moinit/internal/cmd/table"
	"github.com/agentstation/moinit/internal/metrics"
	"github.com/agentstation/moinit/pkg/constants"
	"github.com/agentstation/moinit/pkg/initconfig"
	"github.com/agentstation/moinit/pkg/logging"
	"github.com/agentstation/moinit/pkg/reconciler"
)

// Flags holds the run command flags.
type Flags struct {
	ConfigFile        string
	DryRun            bool
	SkipMissingFacets bool
	MetricsFile       string
}

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ensure the root organisation and classes exist in MO",
		Long: `Run reads the init configuration and converges MO on it.

The root organisation is created if MO has none and the configuration has a
root_organisation block. Every configured class is then looked up by user key
under its facet: existing classes are updated with the configured title and
scope, missing classes are created. Facets must already exist in MO.`,
		Example: `  moinit run -f init.config.yml
  moinit run --dry -o yaml
  moinit run --skip-missing-facets --metrics-file /var/lib/node_exporter/moinit.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.ConfigFile, "file", "f", constants.DefaultInitConfigFile, "init configuration file (.yml, .yaml or .toml)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry", false, "show planned changes without applying them")
	cmd.Flags().BoolVar(&flags.SkipMissingFacets, "skip-missing-facets", false, "skip configured facets that do not exist in MO instead of failing")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format to this path")

	return cmd
}

// Run executes the run command.
func Run(cmd *cobra.Command, app application.Application, flags *Flags) error {
	ctx := logging.WithOperation(cmd.Context(), "run")
	logger := logging.FromContext(ctx)
	start := time.Now()

	cfg, err := initconfig.Load(flags.ConfigFile)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("file", flags.ConfigFile).
		Int("facets", len(cfg.Facets)).
		Int("classes", cfg.Facets.Len()).
		Msg("Loaded init configuration")
	for _, key := range cfg.UnknownScopes() {
		logger.Debug().Str("class", key).Msg("Scope is not a well-known MO scope, passing it through")
	}

	recorder := metrics.New()
	client, err := app.Client(moinit.WithObserver(recorder))
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	result, err := ensure(ctx, client, cfg, flags)

	facets := 0
	if result != nil {
		facets = result.FacetsFetched
	}
	recorder.ObserveRun(facets, time.Since(start), err)
	if flags.MetricsFile != "" {
		if werr := recorder.WriteTextfile(flags.MetricsFile); werr != nil {
			logger.Error().Err(werr).Str("path", flags.MetricsFile).Msg("Failed to write metrics")
		}
	}

	if err != nil {
		if result != nil && result.Plan != nil {
			logger.Error().Str("summary", result.Summary()).Msg("Run aborted")
		}
		return err
	}

	logger.Info().Msg(result.Summary())
	return writeResult(cmd, app, result)
}

func ensure(ctx context.Context, client moinit.Client, cfg *initconfig.Config, flags *Flags) (*reconciler.Result, error) {
	logger := logging.FromContext(ctx)

	if flags.DryRun {
		org, err := client.RootOrg(ctx)
		if err != nil {
			return nil, err
		}
		if org == nil && cfg.RootOrganisation != nil {
			logger.Info().Str("name", cfg.RootOrganisation.Name).Msg("Dry run: would create root organisation")
		}
	} else if _, _, err := client.EnsureRootOrg(ctx, cfg.RootOrganisation); err != nil {
		return nil, err
	}

	return client.EnsureClasses(ctx, cfg.Facets,
		reconciler.WithDryRun(flags.DryRun),
		reconciler.WithSkipMissingFacets(flags.SkipMissingFacets),
	)
}

func writeResult(cmd *cobra.Command, app application.Application, result *reconciler.Result) error {
	format := output.DetectFormat(app.OutputFormat())

	mutations := result.Applied
	if result.DryRun {
		mutations = result.Plan.Mutations
	}
	rows := table.PlanToTableData(&reconciler.Plan{Mutations: mutations})

	return output.Write(cmd.OutOrStdout(), format, rows, result)
}
