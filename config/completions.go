package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const completionsUsage = `To load completions:

Bash:
  $ source <(gpt5 --set-completions bash)

Zsh:
  $ gpt5 --set-completions zsh > "${fpath[1]}/_gpt5"

fish:
  $ gpt5 --set-completions fish | source

PowerShell:
  PS> gpt5 --set-completions powershell | Out-String | Invoke-Expression
`

// GenCompletions writes the completion script of command's root for shell.
func GenCompletions(command *cobra.Command, shell string, out io.Writer) error {
	root := command.Root()

	switch shell {
	case "bash":
		return root.GenBashCompletion(out)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(out)
	}

	return fmt.Errorf("unsupported shell %q\n\n%s", shell, completionsUsage)
}
