// Package match finds the calendar event a user is referring to. It combines
// the date/time fragments collected over a conversation into a concrete
// search, runs it against a calendar backend, and narrows the results far
// enough for the caller to either act or ask the user to pick.
package match

import (
	"context"
	"time"
)

// EventRecord is a calendar event as this package sees it. The calendar
// provider owns the data; a record list lives only for the duration of one
// disambiguation.
type EventRecord struct {
	ID          string
	Title       string
	StartTime   time.Time // UTC
	EndTime     time.Time // UTC
	IsOrganizer bool
	IsCancelled bool
	RecurringID string
}

// CalendarQuery is the narrow calendar-backend contract the matcher needs.
// Implementations return events in UTC with provider-side timezone
// conversion already applied.
type CalendarQuery interface {
	// EventsByStartTime returns events starting exactly at the given instant.
	EventsByStartTime(ctx context.Context, start time.Time) ([]EventRecord, error)
	// EventsByRange returns events starting within [start, end].
	EventsByRange(ctx context.Context, start, end time.Time) ([]EventRecord, error)
}
