// Package parser turns a day-block activity log export into structured
// records: events, daily summaries and growth measurements.
package parser

import (
	"errors"
	"fmt"

	"github.com/ccollicutt/babylog/pkg/record"
)

// ErrNoDayBlocks is wrapped by ParseError when a document holds no
// recognizable day-block at all.
var ErrNoDayBlocks = errors.New("no recognizable day-blocks")

// ParseError is the only fatal parse outcome: the input is not this format.
type ParseError struct {
	// Candidates is the number of separator-delimited blocks that were seen.
	Candidates int

	// Defects explains why each candidate was rejected.
	Defects []Defect
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v (%d candidate blocks rejected)", ErrNoDayBlocks, e.Candidates)
}

// Unwrap allows errors.Is(err, ErrNoDayBlocks).
func (e *ParseError) Unwrap() error {
	return ErrNoDayBlocks
}

// DefectKind classifies a recoverable parse problem.
type DefectKind string

const (
	// DefectBlock means a whole day-block was dropped.
	DefectBlock DefectKind = "block"

	// DefectLine means a single event line was dropped.
	DefectLine DefectKind = "line"

	// DefectSummary means a summary region did not follow the template and
	// the day's totals defaulted to zero.
	DefectSummary DefectKind = "summary"
)

// Defect records input that was skipped instead of aborting the parse.
type Defect struct {
	Kind DefectKind `json:"kind"`

	// Line is the 1-based line number in the source document.
	Line int `json:"line"`

	// Date is the owning block's date header text, if it was recognized.
	Date string `json:"date,omitempty"`

	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// Result is the output of one parse pass.
type Result struct {
	record.Set

	// Days is the number of accepted day-blocks.
	Days int

	// Defects lists every skipped block and line in source order.
	Defects []Defect
}
