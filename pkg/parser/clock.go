package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Clock is a time of day as written in a log. Hour may exceed 23 when an
// entry belongs to the night after the block's date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM". Hours of 24 and above are accepted; minutes must
// be below 60.
func ParseClock(s string) (Clock, error) {
	matches := clockPattern.FindStringSubmatch(s)
	if matches == nil {
		return Clock{}, fmt.Errorf("clock pattern did not match %q", s)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	if minute >= 60 {
		return Clock{}, fmt.Errorf("minute out of range in %q", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// On resolves the clock against a block date. Overflowing hours roll over:
// hour/24 days are added and hour%24 is used as the wall-clock hour.
func (c Clock) On(date time.Time) time.Time {
	days := c.Hour / 24
	hour := c.Hour % 24
	y, m, d := date.AddDate(0, 0, days).Date()
	return time.Date(y, m, d, hour, c.Minute, 0, 0, date.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
