package main

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for wowlog.

To load completions:

Bash:
  $ source <(wowlog completion bash)

  # To load completions for each session, execute once:
  $ wowlog completion bash > /etc/bash_completion.d/wowlog

Zsh:
  # Enable completion once if it is not already on:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ wowlog completion zsh > "${fpath[1]}/_wowlog"

Fish:
  $ wowlog completion fish > ~/.config/fish/completions/wowlog.fish

PowerShell:
  PS> wowlog completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()

		switch args[0] {
		case "bash":
			return root.GenBashCompletionV2(out, true)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
