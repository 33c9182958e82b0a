// Package facets implements the facets command.
package facets

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/moinit/internal/cmd/application"
	"github.com/agentstation/moinit/internal/cmd/output"
	"github.com/agentstation/moinit/internal/cmd/table"
)

// NewCommand creates the facets command.
func NewCommand(app application.Application) *cobra.Command {
	var showClasses bool

	cmd := &cobra.Command{
		Use:     "facets",
		Aliases: []string{"classes"},
		Short:   "List the facets and classes in MO",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck

			facets, err := client.Facets(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.Write(cmd.OutOrStdout(), format, table.FacetsToTableData(facets, showClasses), facets)
		},
	}

	cmd.Flags().BoolVarP(&showClasses, "classes", "c", false, "list every class instead of class counts")

	return cmd
}
