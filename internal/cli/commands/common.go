package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/ccollicutt/babylog/internal/logging"
	"github.com/ccollicutt/babylog/pkg/config"
	"github.com/ccollicutt/babylog/pkg/parser"
	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/store"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Globals holds the persistent flags shared by every command.
type Globals struct {
	ConfigPath string
	LogLevel   string
}

// LoadConfig loads the configuration named by --config (defaults when
// unset), applies --log-level and installs the process logger on errOut.
func (g *Globals) LoadConfig(ctx context.Context, errOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx, g.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	logging.Init(errOut, logging.ParseLevel(cfg.LogLevel), cfg.LogFormat == "json")
	return cfg, nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	st, err := store.Open(store.Kind(cfg.Store), cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}
	return st, nil
}

func workers(cfg *config.Config) int {
	if cfg.Workers > 0 {
		return cfg.Workers
	}
	return runtime.NumCPU()
}

func parserOptions(cfg *config.Config) []parser.Option {
	return []parser.Option{
		parser.WithWorkers(workers(cfg)),
		parser.WithLogger(slog.Default()),
	}
}

// inputPath picks the positional log file, falling back to the configured
// input.
func inputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Input != "" {
		return cfg.Input, nil
	}
	return "", errors.New("no log file given and no input configured")
}

// loadRecords parses path when set. Otherwise it reads the store, parsing the
// configured input when the store is empty. It returns the records, a source
// description and the defect count (zero for stored records).
func loadRecords(ctx context.Context, cfg *config.Config, path string) (record.Set, string, int, error) {
	if path == "" {
		st, err := openStore(cfg)
		if err != nil {
			return record.Set{}, "", 0, err
		}
		defer st.Close()

		set, err := st.Load(ctx)
		if err == nil {
			return set, fmt.Sprintf("%s store (%s)", cfg.Store, cfg.DataDir), 0, nil
		}
		if !errors.Is(err, store.ErrEmpty) {
			return record.Set{}, "", 0, fmt.Errorf("loading records: %w", err)
		}
		if cfg.Input == "" {
			return record.Set{}, "", 0, errors.New("no records stored; run 'babylog parse <log-file>' first or pass a log file")
		}
		slog.Info("store empty, parsing configured input", "input", cfg.Input)
		path = cfg.Input
	}

	res, err := parser.ParseFile(ctx, path, parserOptions(cfg)...)
	if err != nil {
		return record.Set{}, "", 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res.Set, path, len(res.Defects), nil
}
