package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// summaryMarker opens the totals region at the end of a day-block.
const summaryMarker = "母乳合計"

var summaryPattern = regexp.MustCompile(`(?s)母乳合計.*?左\s*(\d+)分\s*/\s*右\s*(\d+)分\s*\n` +
	`ミルク合計\s*(\d+)回\s*(\d+)ml\s*\n` +
	`睡眠合計\s*(\d+)時間(\d+)分\s*\n` +
	`おしっこ合計\s*(\d+)回\s*\n` +
	`うんち合計\s*(\d+)回`)

// Totals are the aggregate figures a day-block states about itself.
type Totals struct {
	BreastfeedLeft  int
	BreastfeedRight int
	MilkCount       int
	MilkAmount      int
	SleepMinutes    int
	PeeCount        int
	PoopCount       int
}

// ExtractSummary reads the totals region of a block's content. ok is false
// when the region is missing or deviates from the template, in which case
// the zero Totals are returned.
func ExtractSummary(content string) (Totals, bool) {
	_, region, found := splitSummary(content)
	if !found {
		return Totals{}, false
	}

	m := summaryPattern.FindStringSubmatch(region)
	if m == nil {
		return Totals{}, false
	}

	n := make([]int, len(m)-1)
	for i, s := range m[1:] {
		v, err := strconv.Atoi(s)
		if err != nil {
			return Totals{}, false
		}
		n[i] = v
	}

	return Totals{
		BreastfeedLeft:  n[0],
		BreastfeedRight: n[1],
		MilkCount:       n[2],
		MilkAmount:      n[3],
		SleepMinutes:    n[4]*60 + n[5],
		PeeCount:        n[6],
		PoopCount:       n[7],
	}, true
}

// splitSummary cuts content at the first line starting with the summary
// marker. events keeps everything before that line.
func splitSummary(content string) (events, summary string, found bool) {
	offset := 0
	for _, line := range strings.SplitAfter(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), summaryMarker) {
			return content[:offset], content[offset:], true
		}
		offset += len(line)
	}
	return content, "", false
}
