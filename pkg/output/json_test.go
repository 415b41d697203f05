package output

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ccollicutt/babylog/pkg/analyzer"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	for _, key := range []string{"summary", "time_series", "hourly_patterns", "correlations", "growth", "alerts", "metadata"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing %q", key)
		}
	}
	if _, ok := decoded["analysis"]; ok {
		t.Error("analysis tree should be omitted when not attached")
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if summary.Text != report.Summary.Text {
		t.Error("Quiet output should be the summary")
	}
}

func TestJSONFormatter_Format_AnalysisOnlyWhenVerbose(t *testing.T) {
	report := createTestReport()
	report.Analysis = analyzer.Analyze(createTestSet())

	tests := []struct {
		verbose bool
		want    bool
	}{
		{verbose: false, want: false},
		{verbose: true, want: true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := NewJSONFormatter(FormatOptions{Verbose: tt.verbose}).Format(context.Background(), report, &buf); err != nil {
			t.Fatalf("Format() error = %v", err)
		}

		var decoded map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("Output is not valid JSON: %v", err)
		}
		if _, ok := decoded["analysis"]; ok != tt.want {
			t.Errorf("verbose=%v: analysis present = %v, want %v", tt.verbose, ok, tt.want)
		}
	}

	if report.Analysis == nil {
		t.Error("Format() must not modify the report")
	}
}
