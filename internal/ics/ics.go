// Package ics imports iCalendar files into the local calendar store.
package ics

import (
	"context"
	"fmt"
	"io"
	"os"

	ical "github.com/arran4/golang-ical"

	"github.com/danafried/whenish/internal/match"
	"github.com/danafried/whenish/internal/store"
)

// Entry is one parsed VEVENT: the normalized event plus its raw RRULE when
// the event recurs.
type Entry struct {
	Event match.EventRecord
	RRule string
}

// Parse reads an iCalendar payload into entries. A VEVENT missing its UID or
// start/end is skipped, not fatal: one broken event must not lose a calendar.
func Parse(r io.Reader) ([]Entry, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	var entries []Entry
	for _, ve := range cal.Events() {
		entry, ok := parseVEvent(ve)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseVEvent(ve *ical.VEvent) (Entry, bool) {
	var entry Entry

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return entry, false
	}
	entry.Event.ID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		entry.Event.Title = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return entry, false
	}
	end, err := ve.GetEndAt()
	if err != nil {
		end = start
	}
	entry.Event.StartTime = start.UTC()
	entry.Event.EndTime = end.UTC()
	entry.Event.IsOrganizer = ve.GetProperty("ORGANIZER") != nil

	if p := ve.GetProperty("STATUS"); p != nil && p.Value == "CANCELLED" {
		entry.Event.IsCancelled = true
	}
	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		entry.Event.RecurringID = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		entry.RRule = p.Value
	}

	return entry, true
}

// ImportFile loads the .ics file at path into the store, returning the
// number of imported events.
func ImportFile(ctx context.Context, st *store.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open ics file: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return 0, err
	}

	for _, entry := range entries {
		if err := st.PutEvent(ctx, entry.Event, entry.RRule); err != nil {
			return 0, err
		}
	}
	return len(entries), nil
}
