package analyzer

import (
	"sort"
	"time"

	"github.com/ccollicutt/babylog/pkg/record"
)

// FollowOn counts, for each window, the trigger events that are followed by
// at least one marker event in (t, t+window]. A trigger counts once however
// many markers fall inside its window. Rates are count / triggers, or 0 when
// there are no triggers.
func FollowOn(events []record.Event, trigger, marker record.Category, windows []time.Duration) (triggers int, result []FollowOnWindow) {
	triggerEvents := byCategory(events, trigger)
	markerTimes := timestamps(byCategory(events, marker))

	result = make([]FollowOnWindow, len(windows))
	for i, w := range windows {
		result[i] = FollowOnWindow{Window: w, Minutes: int(w / time.Minute)}
	}

	for _, t := range triggerEvents {
		// first marker strictly after the trigger
		next := sort.Search(len(markerTimes), func(i int) bool {
			return markerTimes[i].After(t.Timestamp)
		})
		if next == len(markerTimes) {
			continue
		}
		gap := markerTimes[next].Sub(t.Timestamp)
		for i, w := range windows {
			if gap <= w {
				result[i].Count++
			}
		}
	}

	if n := len(triggerEvents); n > 0 {
		for i := range result {
			result[i].Rate = float64(result[i].Count) / float64(n)
		}
	}

	return len(triggerEvents), result
}

func timestamps(events []record.Event) []time.Time {
	out := make([]time.Time, len(events))
	for i, ev := range events {
		out[i] = ev.Timestamp
	}
	return out
}
