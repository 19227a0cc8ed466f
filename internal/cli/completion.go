package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/ldgraph/pkg/capture"
	"github.com/matzehuels/ldgraph/pkg/graph"
	"github.com/matzehuels/ldgraph/pkg/render"
)

// flagValues lists the fixed values offered for flag completion.
var flagValues = map[string][]string{
	"slot":   {capture.SlotServer, capture.SlotDOM},
	"mode":   {capture.ModeLocal, capture.ModeRemote},
	"type":   {graph.VizTypeGrid, graph.VizTypeNodelink},
	"format": {render.FormatSVG, render.FormatDOT, render.FormatJSON, render.FormatPDF, render.FormatPNG},
	"engine": {"neato", "fdp", "dot"},
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for ldgraph.

Besides commands and flags, the scripts complete the values of --slot,
--mode, --type, --format and --engine, and offer capture and layout files
for positional arguments.

To load completions:

Bash:
  $ source <(ldgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ ldgraph completion bash > /etc/bash_completion.d/ldgraph
  # macOS:
  $ ldgraph completion bash > $(brew --prefix)/etc/bash_completion.d/ldgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ ldgraph completion zsh > "${fpath[1]}/_ldgraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ ldgraph completion fish | source

  # To load completions for each session, execute once:
  $ ldgraph completion fish > ~/.config/fish/completions/ldgraph.fish

PowerShell:
  PS> ldgraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> ldgraph completion powershell > ldgraph.ps1
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

// registerCompletions wires value completion for the flags in flagValues and
// file completion for positional inputs on every subcommand of root.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		for name, values := range flagValues {
			if cmd.Flags().Lookup(name) == nil {
				continue
			}
			_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
		switch cmd.Name() {
		case "capture", "diff", "layout", "browse":
			cmd.ValidArgsFunction = fileCompletion("html", "htm", "json")
		case "visualize":
			cmd.ValidArgsFunction = fileCompletion("json")
		}
	}
}

func fileCompletion(exts ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}
