// Package completion provides shell completion generation commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCommand returns the completion command.
func NewCommand(rootCmd *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completions",
		Long: `Generate shell completion scripts for sheetjson.

Install instructions:
  Bash:       sheetjson completion bash > /etc/bash_completion.d/sheetjson
              echo 'source <(sheetjson completion bash)' >> ~/.bashrc
  Zsh:        sheetjson completion zsh > ~/.zsh/completions/_sheetjson
  Fish:       sheetjson completion fish > ~/.config/fish/completions/sheetjson.fish
  PowerShell: sheetjson completion powershell >> $PROFILE`,
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				fmt.Fprintln(out, "# sheetjson bash completion")
				fmt.Fprintln(out)
				return rootCmd.GenBashCompletion(out)
			case "zsh":
				fmt.Fprintln(out, "# sheetjson zsh completion")
				fmt.Fprintln(out)
				return rootCmd.GenZshCompletion(out)
			case "fish":
				fmt.Fprintln(out, "# sheetjson fish completion")
				fmt.Fprintln(out)
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				fmt.Fprintln(out, "# sheetjson PowerShell completion")
				fmt.Fprintln(out)
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish, powershell)", args[0])
			}
		},
	}
	return cmd
}
