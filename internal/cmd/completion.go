package cmd

import (
	"github.com/quantmind-br/sdklaunch/internal/config"
	"github.com/quantmind-br/sdklaunch/internal/ui"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// NewCompletionCmd creates the completion command
func NewCompletionCmd(_ *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sdklaunch.

To load completions:

Bash:
  $ source <(sdklaunch completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sdklaunch completion bash > /etc/bash_completion.d/sdklaunch
  # macOS:
  $ sdklaunch completion bash > $(brew --prefix)/etc/bash_completion.d/sdklaunch

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sdklaunch completion zsh > "${fpath[1]}/_sdklaunch"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sdklaunch completion fish | source

  # To load completions for each session, execute once:
  $ sdklaunch completion fish > ~/.config/fish/completions/sdklaunch.fish

PowerShell:
  PS> sdklaunch completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sdklaunch completion powershell > sdklaunch.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  invocationArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			out := cmd.OutOrStdout()

			switch shell {
			case "bash":
				if err := cmd.Root().GenBashCompletion(out); err != nil {
					ui.PrintError(cmd.ErrOrStderr(), "Failed to generate bash completion: %v", err)
					return err
				}
			case "zsh":
				if err := cmd.Root().GenZshCompletion(out); err != nil {
					ui.PrintError(cmd.ErrOrStderr(), "Failed to generate zsh completion: %v", err)
					return err
				}
			case "fish":
				if err := cmd.Root().GenFishCompletion(out, true); err != nil {
					ui.PrintError(cmd.ErrOrStderr(), "Failed to generate fish completion: %v", err)
					return err
				}
			case "powershell":
				if err := cmd.Root().GenPowerShellCompletionWithDesc(out); err != nil {
					ui.PrintError(cmd.ErrOrStderr(), "Failed to generate powershell completion: %v", err)
					return err
				}
			}

			log.Debug().Str("shell", shell).Msg("generated shell completion")
			return nil
		},
	}

	return cmd
}
