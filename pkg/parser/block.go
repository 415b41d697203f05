package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

var (
	separatorPattern  = regexp.MustCompile(`^-{10,}$`)
	dateHeaderPattern = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})\(.\)`)
	agePattern        = regexp.MustCompile(`(\d+)歳(\d+)[かヶヵカ]月(\d+)日`)
)

// block is the raw text between two separator lines.
type block struct {
	// line is the 1-based document line of lines[0].
	line  int
	lines []string
}

// blank reports whether the block holds nothing but whitespace.
func (b block) blank() bool {
	for _, l := range b.lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// splitBlocks cuts a document at separator lines. Text before the first
// separator is not part of any block.
func splitBlocks(doc string) []block {
	var (
		blocks  []block
		current *block
	)

	for i, line := range strings.Split(doc, "\n") {
		if separatorPattern.MatchString(strings.TrimSpace(line)) {
			if current != nil {
				blocks = append(blocks, *current)
			}
			current = &block{line: i + 2}
			continue
		}
		if current != nil {
			current.lines = append(current.lines, line)
		}
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

// parseDateHeader reads "YYYY/M/D(x)" into a UTC midnight date.
func parseDateHeader(s string) (time.Time, error) {
	m := dateHeaderPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognized date header")
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid calendar date %s/%s/%s", m[1], m[2], m[3])
	}
	return t, nil
}

// parseAge finds "<y>歳<m>か月<d>日" in a subject line. A missing age is the
// zero Age.
func parseAge(s string) record.Age {
	m := agePattern.FindStringSubmatch(s)
	if m == nil {
		return record.Age{}
	}
	years, _ := strconv.Atoi(m[1])
	months, _ := strconv.Atoi(m[2])
	days, _ := strconv.Atoi(m[3])
	return record.Age{Years: years, Months: months, Days: days}
}

// blockResult is everything one accepted day-block contributes.
type blockResult struct {
	ok      bool
	events  []record.Event
	summary record.DailySummary
	growth  []record.GrowthRecord
	defects []Defect
}

func parseBlock(b block) blockResult {
	var res blockResult

	// header is the first non-blank line
	h := 0
	for h < len(b.lines) && strings.TrimSpace(b.lines[h]) == "" {
		h++
	}
	if h == len(b.lines) {
		return res
	}
	header := strings.TrimSpace(b.lines[h])

	date, err := parseDateHeader(header)
	if err != nil {
		res.defects = append(res.defects, Defect{
			Kind:   DefectBlock,
			Line:   b.line + h,
			Text:   header,
			Reason: err.Error(),
		})
		return res
	}

	var subject string
	if h+1 < len(b.lines) {
		subject = strings.TrimSpace(b.lines[h+1])
	}
	age := parseAge(subject)

	contentStart := h + 2
	var content string
	if contentStart < len(b.lines) {
		content = strings.Join(b.lines[contentStart:], "\n")
	}

	events, defects := ExtractEvents(date, content)
	for _, d := range defects {
		d.Line += b.line + contentStart - 1
		d.Date = header
		res.defects = append(res.defects, d)
	}

	summary := record.DailySummary{Date: date, Subject: subject, Age: age}

	totals, ok := ExtractSummary(content)
	if ok {
		summary.BreastfeedLeft = totals.BreastfeedLeft
		summary.BreastfeedRight = totals.BreastfeedRight
		summary.MilkCount = totals.MilkCount
		summary.MilkAmount = totals.MilkAmount
		summary.SleepMinutes = totals.SleepMinutes
		summary.PeeCount = totals.PeeCount
		summary.PoopCount = totals.PoopCount
	} else if _, region, found := splitSummary(content); found {
		res.defects = append(res.defects, Defect{
			Kind:   DefectSummary,
			Line:   b.line + contentStart + strings.Count(content[:len(content)-len(region)], "\n"),
			Date:   header,
			Text:   firstLine(region),
			Reason: "summary does not follow the totals template",
		})
	}

	for i := range events {
		events[i].Subject = subject
		events[i].Age = age

		ev := events[i]
		if ev.Category == record.CategoryVomit {
			summary.VomitCount++
			if ev.HasValue() && ev.Unit == record.UnitLevel {
				summary.VomitLevelSum += *ev.Value
			}
		}
		if ev.Category.IsGrowth() && ev.HasValue() && ev.Category.Accepts(ev.Unit) {
			res.growth = append(res.growth, record.GrowthRecord{
				Date:      ev.Date,
				Timestamp: ev.Timestamp,
				Type:      record.GrowthType(ev.Category),
				Value:     *ev.Value,
				Unit:      ev.Unit,
				Subject:   subject,
				Age:       age,
			})
		}
	}

	res.ok = true
	res.events = events
	res.summary = summary
	return res
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
