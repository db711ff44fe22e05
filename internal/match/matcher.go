package match

import (
	"context"
	"time"
)

// Matcher runs slot-filled search windows against a calendar backend.
type Matcher struct {
	query CalendarQuery

	// now is overridable in tests; defaults to time.Now.
	now func() time.Time
}

func NewMatcher(query CalendarQuery) *Matcher {
	return &Matcher{query: query, now: time.Now}
}

// FindEvents resolves a search window into the events it designates.
//
// Ambiguous start and end readings are tried in order against real data:
// the first pairing that yields any events wins. Pairings whose end falls
// before the start are skipped. Events that are cancelled or start before
// the anchor are dropped; the backend's ordering is otherwise preserved.
// An exhausted candidate list yields an empty result, and the caller
// decides whether to re-collect a time.
func (m *Matcher) FindEvents(ctx context.Context, w *SearchWindow) ([]EventRecord, error) {
	if w.Empty() {
		return nil, nil
	}

	loc := w.location()
	today := m.now().In(loc)

	startDates := w.StartDates
	if len(startDates) == 0 {
		startDates = []time.Time{time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)}
	}
	startTimes := w.StartTimes
	if len(startTimes) == 0 {
		startTimes = []time.Time{time.Date(0, 1, 1, 0, 0, 0, 0, loc)}
	}
	endDates := w.EndDates
	if len(endDates) == 0 {
		endDates = startDates
	}
	endTimes := w.EndTimes
	if len(endTimes) == 0 {
		endTimes = []time.Time{time.Date(0, 1, 1, 23, 59, 59, 0, loc)}
	}

	byStartTime := w.searchByStartTime()

	for _, startDate := range startDates {
		for _, startClock := range startTimes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			anchor := combine(startDate, startClock, loc)

			if byStartTime {
				events, err := m.query.EventsByStartTime(ctx, anchor.UTC())
				if err != nil {
					// A failed query means "try the next candidate", not abort.
					continue
				}
				if events = filterEvents(events, anchor.UTC()); len(events) > 0 {
					return events, nil
				}
				continue
			}

			for _, endDate := range endDates {
				for _, endClock := range endTimes {
					end := combine(endDate, endClock, loc)
					if end.Before(anchor) {
						// Inverted pairing from a mismatched reading.
						continue
					}
					events, err := m.query.EventsByRange(ctx, anchor.UTC(), end.UTC())
					if err != nil {
						continue
					}
					if events = filterEvents(events, anchor.UTC()); len(events) > 0 {
						return events, nil
					}
				}
			}
		}
	}

	return nil, nil
}

// filterEvents drops cancelled events and events starting before the anchor.
func filterEvents(events []EventRecord, anchor time.Time) []EventRecord {
	kept := events[:0:0]
	for _, ev := range events {
		if ev.IsCancelled {
			continue
		}
		if ev.StartTime.Before(anchor) {
			continue
		}
		kept = append(kept, ev)
	}
	return kept
}
