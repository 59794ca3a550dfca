package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tilepanel/pkg/layout"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tilepanel.

To load completions:

Bash:
  $ source <(tilepanel completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tilepanel completion bash > /etc/bash_completion.d/tilepanel
  # macOS:
  $ tilepanel completion bash > $(brew --prefix)/etc/bash_completion.d/tilepanel

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tilepanel completion zsh > "${fpath[1]}/_tilepanel"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tilepanel completion fish | source

  # To load completions for each session, execute once:
  $ tilepanel completion fish > ~/.config/fish/completions/tilepanel.fish

PowerShell:
  PS> tilepanel completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tilepanel completion powershell > tilepanel.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeFillTypes offers the fill type names for --fill.
func completeFillTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, len(layout.FillTypes))
	for i, ft := range layout.FillTypes {
		names[i] = string(ft)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeTileFiles restricts positional completion to TOML files.
func completeTileFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
}
