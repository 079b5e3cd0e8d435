package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	generators := map[string]func(root *cobra.Command, w io.Writer) error{
		"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
		"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
		"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
		"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
	}

	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for newsdata and write it to stdout.

Bash:
  $ source <(newsdata completion bash)

Zsh:
  $ newsdata completion zsh > "${fpath[1]}/_newsdata"

Fish:
  $ newsdata completion fish > ~/.config/fish/completions/newsdata.fish

PowerShell:
  PS> newsdata completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

// completeOutput offers the values accepted by --output.
func completeOutput(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{outputTable, outputJSON, outputYAML}, cobra.ShellCompDirectiveNoFileComp
}

// completeDecode offers the values accepted by --decode.
func completeDecode(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"object", "map"}, cobra.ShellCompDirectiveNoFileComp
}
