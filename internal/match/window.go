package match

import "time"

// SearchWindow accumulates the date/time fragments a user supplies across
// turns. Date entries carry only a calendar date; time entries carry only a
// clock reading. Several entries in one list means the recognizer returned
// ambiguous readings (AM/PM variants), kept in recognizer order.
type SearchWindow struct {
	StartDates []time.Time
	StartTimes []time.Time
	EndDates   []time.Time
	EndTimes   []time.Time

	// Location is the user's time zone; fragments are interpreted in it.
	Location *time.Location
}

// Empty reports whether no date/time fragment has been collected at all.
// An empty window means "no search performed", never a default window.
func (w *SearchWindow) Empty() bool {
	return len(w.StartDates) == 0 && len(w.StartTimes) == 0 &&
		len(w.EndDates) == 0 && len(w.EndTimes) == 0
}

// Clear drops every collected fragment. Called after a search completes and
// when a failed guess must not be retained.
func (w *SearchWindow) Clear() {
	w.StartDates = nil
	w.StartTimes = nil
	w.EndDates = nil
	w.EndTimes = nil
}

// searchByStartTime reports whether the user gave a start time and
// deliberately no range: an exact start search rather than a day scan.
func (w *SearchWindow) searchByStartTime() bool {
	return len(w.StartTimes) > 0 && len(w.EndDates) == 0 && len(w.EndTimes) == 0
}

func (w *SearchWindow) location() *time.Location {
	if w.Location != nil {
		return w.Location
	}
	return time.UTC
}

// combine merges a date fragment with a clock fragment in the given zone.
func combine(date, clock time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
}
