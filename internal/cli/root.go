// Package cli wires the borgspace commands together: the root report
// command plus list, history, init, version, and completion.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flags available on every command.
var (
	configFlag string
	quietFlag  bool
)

// Root command flags.
var (
	styleFlag  string
	recordFlag bool
)

// rootCmd reports repository sizes; it is also the parent of every
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "borgspace [repo...]",
	Short: "Report the size of Borg repositories managed by Emborg",
	Long: `Borgspace reports and tracks the disk usage of Borg backup
repositories managed by Emborg.

Repositories are named as config[@host][~user]; omitted parts default
to this machine and the current user. Named groups of repositories come
from ~/.config/borgspace/settings.yaml.

Examples:
  borgspace                      report the default repository
  borgspace home                 report one repository
  borgspace home@media~backup    report a repository elsewhere
  borgspace --style tree all     report a group as a host/user tree
  borgspace --record home        report and log the size for 'history'`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportCommand(args, styleFlag, recordFlag, quietFlag)
	},
}

// Execute runs the CLI, printing any error and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config returns the --config flag value.
func Config() string {
	return configFlag
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "settings file (default ~/.config/borgspace/settings.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "suppress the report output")

	rootCmd.Flags().StringVarP(&styleFlag, "style", "s", "", "report style: compact, table, tree, yaml, or json")
	rootCmd.Flags().BoolVarP(&recordFlag, "record", "r", false, "save the fetched sizes to the history log")
}
