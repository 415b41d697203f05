package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/babylog/pkg/analyzer"
	"github.com/ccollicutt/babylog/pkg/config"
	"github.com/ccollicutt/babylog/pkg/output"
	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/webhook"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	Verbose bool
	Quiet   bool

	From    string
	To      string
	Marker  string
	Trigger string

	Save         bool
	FailOnAlerts bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(g *Globals) *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [log-file]",
		Short: "Analyze baby-care records",
		Long: `Analyze a log export, or the records saved by 'babylog parse'.

Reports:
  - Daily statistics and time series
  - Marker correlation (vomiting vs. feeding by default)
  - Sleep and feeding patterns
  - Growth trends and fever days

Exit codes:
  0 - Analysis completed
  1 - Alerts present (only with --fail-on-alerts)
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, g, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|html)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include statistics and the full analysis tree")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().StringVar(&opts.From, "from", "", "First day to analyze (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "Last day to analyze (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Marker, "marker", "", "Marker category override")
	cmd.Flags().StringVar(&opts.Trigger, "trigger", "", "Trigger category override")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "Save parsed records to the store")
	cmd.Flags().BoolVar(&opts.FailOnAlerts, "fail-on-alerts", false, "Exit with code 1 when alerts are present")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_alerts", "When to fire webhook (on_alerts|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, g *Globals, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := g.LoadConfig(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	analyzerOpts, err := analyzerOptions(cfg, opts)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	set, source, defects, err := loadRecords(ctx, cfg, path)
	if err != nil {
		return err
	}

	if opts.Save && path != "" {
		if err := saveRecords(ctx, cfg, set); err != nil {
			return err
		}
	}

	result := analyzer.Analyze(set, analyzerOpts...)

	report := output.NewReport(result, source)
	report.Metadata.Defects = defects
	report.Analysis = result

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail analysis)
	sendWebhooks(ctx, cfg, opts, report)

	if opts.FailOnAlerts && report.HasAlerts() {
		ExitCode = 1
	}

	return nil
}

// analyzerOptions combines configured settings with flag overrides.
func analyzerOptions(cfg *config.Config, opts *AnalyzeOptions) ([]analyzer.Option, error) {
	aopts := cfg.Analysis.Options()

	marker := record.Category(cfg.Analysis.MarkerCategory)
	if opts.Marker != "" {
		c, err := record.ParseCategory(opts.Marker)
		if err != nil {
			return nil, fmt.Errorf("invalid --marker: %w", err)
		}
		marker = c
		aopts = append(aopts, analyzer.WithMarker(c))
	}
	trigger := record.Category(cfg.Analysis.TriggerCategory)
	if opts.Trigger != "" {
		c, err := record.ParseCategory(opts.Trigger)
		if err != nil {
			return nil, fmt.Errorf("invalid --trigger: %w", err)
		}
		trigger = c
		aopts = append(aopts, analyzer.WithTrigger(c))
	}
	if marker == trigger {
		return nil, fmt.Errorf("marker and trigger must differ (both %q)", marker)
	}

	if opts.From != "" || opts.To != "" {
		var start, end time.Time
		var err error
		if opts.From != "" {
			if start, err = time.Parse(record.DateLayout, opts.From); err != nil {
				return nil, fmt.Errorf("invalid --from %q: %w", opts.From, err)
			}
		}
		if opts.To != "" {
			if end, err = time.Parse(record.DateLayout, opts.To); err != nil {
				return nil, fmt.Errorf("invalid --to %q: %w", opts.To, err)
			}
		}
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return nil, fmt.Errorf("--to %s is before --from %s", opts.To, opts.From)
		}
		aopts = append(aopts, analyzer.WithTimeRange(start, end))
	}

	return aopts, nil
}

func saveRecords(ctx context.Context, cfg *config.Config, set record.Set) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(ctx, set); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	return nil
}

// sendWebhooks sends the report to all configured webhooks.
// Failures are logged but don't fail the analysis.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()
	hasAlerts := report.HasAlerts()

	for _, wh := range webhooks {
		if !wh.ShouldFire(hasAlerts) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		if resp.Success() {
			slog.Info("webhook sent", "webhook", wh.DisplayName(), "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			slog.Error("webhook failed", "webhook", wh.DisplayName(), "error", resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnAlerts
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
