package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/babylog/internal/server"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(g *Globals) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve parsing and analysis over an HTTP JSON API.

Endpoints:
  GET  /api/health
  POST /api/parse, /api/process
  GET  /api/analyze, /api/events, /api/summary/daily, /api/growth
  GET  /api/analysis/{vomit-correlation,sleep-patterns,feeding-patterns,comprehensive}
  GET  /api/data/csv/{events,daily_summary,growth}.csv

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, g *Globals, opts *ServeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := g.LoadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	addr := cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	srv := server.New(st,
		server.WithInput(cfg.Input),
		server.WithCORSOrigins(cfg.Server.CORSOrigins...),
		server.WithParserOptions(parserOptions(cfg)...),
		server.WithAnalyzerOptions(cfg.Analysis.Options()...),
	)
	return srv.Run(ctx, addr)
}
