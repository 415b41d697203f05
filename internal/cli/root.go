// Package cli provides the command-line interface for babylog.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/babylog/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(NewRootCommand())
}

func run(rootCmd *cobra.Command) int {
	commands.ExitCode = 0
	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	g := &commands.Globals{}

	rootCmd := &cobra.Command{
		Use:   "babylog",
		Short: "Analyze baby-care activity logs",
		Long: `babylog parses day-block activity log exports (feeding, sleep, diapers,
vomiting, growth) into structured records and analyzes them.

It reports:
  - Daily statistics for feeding, sleep and diapers
  - How often vomiting follows a feed, and its daily correlations
  - Sleep fragmentation and feeding intervals
  - Weight and height trends, and fever days

Configuration is optional. Without --config, defaults apply and
BABYLOG_INPUT, BABYLOG_DATA_DIR and BABYLOG_LOG_LEVEL are honored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&g.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewParseCommand(g))
	rootCmd.AddCommand(commands.NewAnalyzeCommand(g))
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand(g))
	rootCmd.AddCommand(commands.NewServeCommand(g))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
