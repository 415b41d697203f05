package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "babylog: %d days, %d events, %d correlations, %d fever days\n",
		report.Metadata.Days,
		report.Metadata.Events,
		len(report.Correlations),
		len(report.Alerts.FeverDays))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== babylog Analysis Report ===")
	fmt.Fprintln(w)

	fmt.Fprint(w, report.Summary.Text)
	if !strings.HasSuffix(report.Summary.Text, "\n\n") {
		fmt.Fprintln(w)
	}

	if len(report.Correlations) > 0 {
		fmt.Fprintln(w, "[CORRELATIONS]")
		for _, c := range report.Correlations {
			sig := ""
			if c.Significant {
				sig = " *"
			}
			fmt.Fprintf(w, "  - %s: r=%.2f p=%.3f n=%d (%s)%s\n",
				c.Label, c.Value, c.PValue, c.N, c.Strength, sig)
		}
		fmt.Fprintln(w)
	}

	if report.HasAlerts() {
		fmt.Fprintln(w, "[ALERTS]")
		fmt.Fprintf(w, "  Fever days: %s\n", strings.Join(report.Alerts.FeverDays, ", "))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d days, %d events, %d growth records\n",
		report.Metadata.Days,
		report.Metadata.Events,
		report.Metadata.GrowthRecords)

	if f.opts.Verbose {
		f.formatVerbose(report, w)
	}

	return nil
}

func (f *TextFormatter) formatVerbose(report *Report, w io.Writer) {
	if report.Metadata.FirstDate != "" {
		fmt.Fprintf(w, "Range: %s to %s\n", report.Metadata.FirstDate, report.Metadata.LastDate)
	}
	if report.Metadata.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", report.Metadata.Source)
	}
	fmt.Fprintf(w, "Defects: %d\n", report.Metadata.Defects)
	fmt.Fprintf(w, "Run: %s\n", report.Metadata.RunID)

	keys := make([]string, 0, len(report.Summary.Stats))
	for k := range report.Summary.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := report.Summary.Stats[k]
		fmt.Fprintf(w, "  %-14s mean=%.2f min=%.0f max=%.0f std=%.2f\n", k, s.Mean, s.Min, s.Max, s.Std)
	}
}
