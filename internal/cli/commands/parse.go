package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/babylog/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Store   string
	DataDir string
}

// NewParseCommand creates the parse command.
func NewParseCommand(g *Globals) *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [log-file]",
		Short: "Parse a log export and save the records",
		Long: `Parse a baby-care log export into events, daily summaries and growth
records, and save them to the configured store.

Malformed day-blocks and event lines are skipped and logged as warnings.
The command fails only when no day-block can be recognized.

Without a log file argument the configured input is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "Store type override (csv|sqlite)")
	cmd.Flags().StringVar(&opts.DataDir, "data-dir", "", "Data directory override")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, g *Globals, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.LoadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if opts.Store != "" {
		cfg.Store = opts.Store
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}

	path, err := inputPath(args, cfg)
	if err != nil {
		return err
	}

	res, err := parser.ParseFile(ctx, path, parserOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Save(ctx, res.Set); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Parsed %s\n", path)
	fmt.Fprintf(out, "  Days:           %d\n", res.Days)
	fmt.Fprintf(out, "  Events:         %d\n", len(res.Events))
	fmt.Fprintf(out, "  Growth records: %d\n", len(res.Growth))
	fmt.Fprintf(out, "  Skipped:        %d\n", len(res.Defects))
	fmt.Fprintf(out, "Saved to %s store in %s\n", cfg.Store, cfg.DataDir)

	return nil
}
