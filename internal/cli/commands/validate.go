package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/babylog/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Validate a babylog configuration file without running analysis.

Checks:
  - YAML syntax
  - Known marker and trigger categories
  - Follow-on windows, hour bins and other analysis settings
  - Store type and webhook definitions
  - Input file existence (warning only)

Without an argument the file named by --config is validated.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, g)
		},
	}
}

func runValidate(cmd *cobra.Command, args []string, g *Globals) error {
	configPath := g.ConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}
	if configPath == "" {
		return fmt.Errorf("no config file given (pass one or use --config)")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	a := cfg.Analysis
	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Store:     %s (%s)\n", cfg.Store, cfg.DataDir)
	fmt.Fprintf(out, "  Marker:    %s\n", a.MarkerCategory)
	fmt.Fprintf(out, "  Trigger:   %s\n", a.TriggerCategory)
	fmt.Fprintf(out, "  Windows:   %v\n", a.FollowOnWindows)
	fmt.Fprintf(out, "  Hour bins: %d\n", a.HourBins)
	fmt.Fprintf(out, "  Fever:     %.1f°C\n", a.FeverThreshold)
	fmt.Fprintf(out, "  Webhooks:  %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		fmt.Fprintf(out, "    %d. [%s] %s\n", i+1, wh.Trigger, wh.DisplayName())
	}

	// Check the input exists (warning only)
	if cfg.Input != "" {
		if _, err := os.Stat(cfg.Input); err != nil {
			fmt.Fprintf(out, "\nWarning: input %s is not readable: %v\n", cfg.Input, err)
		} else {
			fmt.Fprintf(out, "\nInput: %s\n", cfg.Input)
		}
	}

	return nil
}
