package output

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTMLFormatter renders reports as a standalone HTML page.
type HTMLFormatter struct {
	opts FormatOptions
}

// NewHTMLFormatter creates a new HTML formatter with the given options.
func NewHTMLFormatter(opts FormatOptions) *HTMLFormatter {
	return &HTMLFormatter{opts: opts}
}

// Name returns the format name.
func (f *HTMLFormatter) Name() string {
	return "html"
}

// Format renders the report as Markdown and converts it to HTML.
func (f *HTMLFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(f.markdown(report)), &buf); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	return htmlPage.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: "babylog report",
		Body:  template.HTML(buf.String()), // #nosec G203 -- goldmark escapes raw HTML by default
	})
}

func (f *HTMLFormatter) markdown(report *Report) string {
	var b strings.Builder

	b.WriteString("# babylog report\n\n")
	if m := report.Metadata; m.FirstDate != "" {
		fmt.Fprintf(&b, "%s to %s, %d days, %d events\n\n", m.FirstDate, m.LastDate, m.Days, m.Events)
	}

	// the summary text uses "■" headings and "・" bullets
	for _, line := range strings.Split(report.Summary.Text, "\n") {
		switch {
		case strings.HasPrefix(line, "■ "):
			fmt.Fprintf(&b, "## %s\n\n", strings.TrimPrefix(line, "■ "))
		case strings.HasPrefix(line, "・"):
			fmt.Fprintf(&b, "- %s\n", strings.TrimPrefix(line, "・"))
		case strings.TrimSpace(line) == "":
			b.WriteString("\n")
		}
	}

	if f.opts.Quiet {
		return b.String()
	}

	if len(report.Correlations) > 0 {
		b.WriteString("## Correlations\n\n")
		b.WriteString("| | r | p | n | |\n|---|---:|---:|---:|---|\n")
		for _, c := range report.Correlations {
			sig := ""
			if c.Significant {
				sig = "**significant**"
			}
			fmt.Fprintf(&b, "| %s | %.2f | %.3f | %d | %s %s |\n", c.Label, c.Value, c.PValue, c.N, c.Strength, sig)
		}
		b.WriteString("\n")
	}

	if ts, ok := report.TimeSeries["milk"]; ok && len(ts.Labels) > 0 {
		b.WriteString("## Daily\n\n| date | sleep (h) | milk (ml) | vomit |\n|---|---:|---:|---:|\n")
		sleep, vomit := report.TimeSeries["sleep"], report.TimeSeries["vomit"]
		for i, d := range ts.Labels {
			fmt.Fprintf(&b, "| %s | %.1f | %.0f | %.0f |\n", d, at(sleep.Data, i), at(ts.Data, i), at(vomit.Data, i))
		}
		b.WriteString("\n")
	}

	if report.HasAlerts() {
		fmt.Fprintf(&b, "## Alerts\n\nFever days: %s\n\n", strings.Join(report.Alerts.FeverDays, ", "))
	}

	if f.opts.Verbose {
		fmt.Fprintf(&b, "---\n\nRun `%s`, %d defects\n", report.Metadata.RunID, report.Metadata.Defects)
	}

	return b.String()
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
