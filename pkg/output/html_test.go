package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestHTMLFormatter_Format(t *testing.T) {
	f := NewHTMLFormatter(FormatOptions{})
	if f.Name() != "html" {
		t.Errorf("Name() = %q, want %q", f.Name(), "html")
	}

	var buf bytes.Buffer
	if err := f.Format(context.Background(), createTestReport(), &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<h1>babylog report</h1>",
		"<h2>日次統計</h2>",
		"<table>",
		"<td>2024-02-10</td>",
		"Fever days: 2024-02-13",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("HTML output missing %q", want)
		}
	}
}

func TestHTMLFormatter_EscapesText(t *testing.T) {
	report := createTestReport()
	report.Summary.Text = "■ <script>alert(1)</script>\n"

	var buf bytes.Buffer
	if err := NewHTMLFormatter(FormatOptions{Quiet: true}).Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Error("raw HTML in report text was not escaped")
	}
}
