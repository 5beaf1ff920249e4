package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/borgspace/internal/errors"
)

// Command-specific flags
var (
	initForce bool
)

// listCmd shows the configured groups and their expansions
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show configured repository groups",
	Long: `List the repository groups from the settings file and the concrete
repositories each one resolves to. Nothing is fetched.

Examples:
  borgspace list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCommand()
	},
}

// historyCmd shows recorded sizes over time
var historyCmd = &cobra.Command{
	Use:   "history [repo...]",
	Short: "Show recorded repository sizes over time",
	Long: `Show the size history recorded with 'borgspace --record' for the
requested repositories, as a table plus a sparkline of the trend.

Examples:
  borgspace history
  borgspace history home
  borgspace history home@media~backup`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyCommand(args)
	},
}

// initCmd creates a starter settings file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter settings file",
	Long: `Write a commented starter settings file to
~/.config/borgspace/settings.yaml (or the --config path).

Examples:
  borgspace init
  borgspace init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for borgspace.

Examples:
  # Bash
  borgspace completion bash > /etc/bash_completion.d/borgspace

  # Zsh
  borgspace completion zsh > "${fpath[1]}/_borgspace"

  # Fish
  borgspace completion fish > ~/.config/fish/completions/borgspace.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing settings file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
