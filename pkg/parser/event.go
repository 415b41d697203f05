package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

// eventPattern matches "HH:MM <type> [(<detail>)]".
var eventPattern = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+(.+?)(?:\s*\(([^()]*)\))?\s*$`)

// ExtractEvents turns the content of one day-block into events in line
// order. Lines that do not parse are reported as defects with line numbers
// relative to content (1-based). Subject and age are left for the caller.
func ExtractEvents(date time.Time, content string) ([]record.Event, []Defect) {
	region, _, _ := splitSummary(content)

	var (
		events  []record.Event
		defects []Defect
	)

	for i, line := range strings.Split(region, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ev, reason := parseEventLine(date, line)
		if reason != "" {
			defects = append(defects, Defect{
				Kind:   DefectLine,
				Line:   i + 1,
				Text:   line,
				Reason: reason,
			})
			continue
		}
		events = append(events, ev)
	}

	return events, defects
}

func parseEventLine(date time.Time, line string) (record.Event, string) {
	m := eventPattern.FindStringSubmatch(line)
	if m == nil {
		return record.Event{}, "unrecognized event line"
	}

	clock, err := ParseClock(m[1])
	if err != nil {
		return record.Event{}, err.Error()
	}

	typeText := strings.TrimSpace(m[2])
	detail := strings.TrimSpace(m[3])
	category := Categorize(typeText)
	value, unit := ExtractValueFor(category, typeText, detail)

	return record.Event{
		Date:      date,
		Timestamp: clock.On(date),
		Time:      m[1],
		Category:  category,
		RawType:   typeText,
		RawDetail: detail,
		Value:     value,
		Unit:      unit,
	}, ""
}
