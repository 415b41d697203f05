package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/babylog/pkg/parser"
	"github.com/ccollicutt/babylog/pkg/record"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Details  []string
	Suggests []string
}

// maxDefectDetails caps how many skipped lines are listed without -v.
const maxDefectDetails = 10

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <log-file>",
		Short: "Diagnose problems in a log export",
		Long: `Diagnose problems in a log export before analyzing it.

This command checks:
- File existence, size and UTF-8 encoding
- Recognizable day-blocks
- Day-blocks and event lines that would be skipped, with line numbers
- Summary regions that do not follow the expected template
- Missing or repeated dates

Example:
  babylog diagnose piyolog.txt
  babylog diagnose -v piyolog.txt  # list every skipped line`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, path string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	// 1. File
	result := checkLogFile(path)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 2. Encoding
	raw, result := checkEncoding(ctx, path)
	results = append(results, result)
	if result.Status == "error" {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 3. Day-blocks
	res, result := checkDayBlocks(raw)
	results = append(results, result)
	if res == nil {
		printDiagnostics(w, results, opts)
		return nil
	}

	// 4. Skipped input
	results = append(results, checkDefects(res, opts)...)

	// 5. Date coverage
	results = append(results, checkDates(res))

	// 6. Growth records
	results = append(results, checkGrowth(res, opts))

	printDiagnostics(w, results, opts)
	return nil
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Log file not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot access log file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = "error"
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = "error"
		result.Message = "Log file is empty"
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Found: %s (%d bytes)", path, info.Size())
	return result
}

func checkEncoding(ctx context.Context, path string) (string, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Encoding",
	}

	raw, err := parser.ReadFile(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Cannot read log file: %v", err)
		return "", result
	}

	if !utf8.ValidString(raw) {
		result.Status = "error"
		result.Message = "File is not valid UTF-8"
		result.Suggests = []string{
			"Re-export the log as UTF-8",
			"Convert with: iconv -f SHIFT_JIS -t UTF-8 in.txt > out.txt",
		}
		return "", result
	}

	result.Status = "ok"
	result.Message = "Valid UTF-8"
	if changed := countNormalized(raw); changed > 0 {
		result.Details = []string{fmt.Sprintf("%d line(s) contain full-width characters that will be normalized", changed)}
	}
	return raw, result
}

// countNormalized counts lines that NFKC normalization would change.
func countNormalized(raw string) int {
	n := 0
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == '\n' {
			line := raw[start:i]
			if parser.Normalize(line) != line {
				n++
			}
			start = i + 1
		}
	}
	return n
}

func checkDayBlocks(raw string) (*parser.Result, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Day-blocks",
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	res, err := parser.Parse(raw, parser.WithLogger(quiet))
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("No day-blocks recognized: %v", err)
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			for _, d := range pe.Defects {
				result.Details = append(result.Details, formatDefect(d))
			}
		}
		result.Suggests = []string{
			"Day-blocks are separated by a line of at least ten dashes",
			"Each block starts with a date header such as 2024/2/10(土)",
		}
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d day(s), %d event(s)", res.Days, len(res.Events))
	if len(res.Summaries) > 0 {
		first := res.Summaries[0].Date.Format(record.DateLayout)
		last := res.Summaries[len(res.Summaries)-1].Date.Format(record.DateLayout)
		result.Details = []string{fmt.Sprintf("Range: %s to %s", first, last)}
	}
	return res, result
}

func checkDefects(res *parser.Result, opts *DiagnoseOptions) []DiagnosticResult {
	byKind := map[parser.DefectKind][]parser.Defect{}
	for _, d := range res.Defects {
		byKind[d.Kind] = append(byKind[d.Kind], d)
	}

	checks := []struct {
		kind    parser.DefectKind
		name    string
		suggest string
	}{
		{parser.DefectBlock, "Skipped Day-blocks", "Check the date header line of each listed block"},
		{parser.DefectLine, "Skipped Event Lines", "Event lines look like: HH:MM  <type> [detail]"},
		{parser.DefectSummary, "Summary Regions", "Totals for these days default to zero"},
	}

	results := []DiagnosticResult{}
	for _, c := range checks {
		defects := byKind[c.kind]
		result := DiagnosticResult{Check: c.name}
		if len(defects) == 0 {
			result.Status = "ok"
			result.Message = "None"
			results = append(results, result)
			continue
		}

		result.Status = "warning"
		result.Message = fmt.Sprintf("%d skipped", len(defects))
		for i, d := range defects {
			if !opts.Verbose && i == maxDefectDetails {
				result.Details = append(result.Details,
					fmt.Sprintf("... and %d more (use -v to list all)", len(defects)-maxDefectDetails))
				break
			}
			result.Details = append(result.Details, formatDefect(d))
		}
		result.Suggests = []string{c.suggest}
		results = append(results, result)
	}
	return results
}

func formatDefect(d parser.Defect) string {
	s := fmt.Sprintf("line %d: %s", d.Line, d.Reason)
	if d.Text != "" {
		s += fmt.Sprintf(" (%q)", truncate(d.Text, 60))
	}
	return s
}

func checkDates(res *parser.Result) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Date Coverage",
	}

	seen := map[string]int{}
	var dates []string
	for _, s := range res.Summaries {
		d := s.Date.Format(record.DateLayout)
		if seen[d] == 0 {
			dates = append(dates, d)
		}
		seen[d]++
	}
	sort.Strings(dates)

	var issues []string
	for _, d := range dates {
		if seen[d] > 1 {
			issues = append(issues, fmt.Sprintf("%s appears %d times", d, seen[d]))
		}
	}
	for i := 1; i < len(dates); i++ {
		prev, _ := time.Parse(record.DateLayout, dates[i-1])
		cur, _ := time.Parse(record.DateLayout, dates[i])
		if gap := int(cur.Sub(prev).Hours() / 24); gap > 1 {
			issues = append(issues, fmt.Sprintf("%d day(s) missing between %s and %s", gap-1, dates[i-1], dates[i]))
		}
	}

	if len(issues) > 0 {
		result.Status = "warning"
		result.Message = fmt.Sprintf("%d issue(s)", len(issues))
		result.Details = issues
		result.Suggests = []string{"Daily statistics treat missing days as absent, not as zero"}
		return result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("%d consecutive day(s)", len(dates))
	return result
}

func checkGrowth(res *parser.Result, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{
		Check:  "Growth Records",
		Status: "ok",
	}

	counts := map[record.GrowthType]int{}
	for _, g := range res.Growth {
		counts[g.Type]++
	}
	result.Message = fmt.Sprintf("%d weight, %d height, %d temperature",
		counts[record.GrowthWeight], counts[record.GrowthHeight], counts[record.GrowthTemperature])

	if opts.Verbose {
		for _, g := range res.Growth {
			result.Details = append(result.Details, fmt.Sprintf("%s %s %g%s",
				g.Timestamp.Format("2006-01-02 15:04"), g.Type, g.Value, g.Unit))
		}
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== babylog Log Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case "ok":
			icon = "PASS"
			okCount++
		case "warning":
			icon = "WARN"
			warnCount++
		case "error":
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		fmt.Fprintln(w, "\nFix the errors above before running analysis.")
	} else if warnCount > 0 {
		fmt.Fprintln(w, "\nLog is usable; skipped input is excluded from analysis.")
	} else {
		fmt.Fprintln(w, "\nLog looks good!")
	}
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
