// Package completion implements the completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/moinit/pkg/errors"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// NewCommand creates the completion command. It writes the script for the
// given shell to stdout.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Example: `  source <(moinit completion bash)
  moinit completion zsh > "${fpath[1]}/_moinit"
  moinit completion fish > ~/.config/fish/completions/moinit.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case ShellBash:
				return root.GenBashCompletionV2(out, true)
			case ShellZsh:
				return root.GenZshCompletion(out)
			case ShellFish:
				return root.GenFishCompletion(out, true)
			case ShellPowerShell:
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return errors.NewValidationError("shell", args[0], "unsupported shell")
		},
	}
}
