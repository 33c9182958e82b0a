// Package org implements the org command.
package org

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/moinit/internal/cmd/application"
	"github.com/agentstation/moinit/internal/cmd/output"
	"github.com/agentstation/moinit/internal/cmd/table"
)

// NewCommand creates the org command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "org",
		Short: "Show the MO root organisation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			defer client.Close() //nolint:errcheck

			org, err := client.RootOrg(cmd.Context())
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if org == nil {
				if format.IsTable() {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "Root organisation is not configured")
					return err
				}
				return output.Write(cmd.OutOrStdout(), format, table.Data{}, nil)
			}
			return output.Write(cmd.OutOrStdout(), format, table.OrgToTableData(org), org)
		},
	}
}
