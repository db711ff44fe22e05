// Package store keeps a local calendar in sqlite and serves the matcher's
// query contract from it. Recurring events are stored as a base row plus an
// RRULE and expanded on read, so the query window always sees concrete
// occurrences.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/teambition/rrule-go"

	"github.com/danafried/whenish/internal/match"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL,
	is_organizer INTEGER NOT NULL DEFAULT 1,
	is_cancelled INTEGER NOT NULL DEFAULT 0,
	recurring_id TEXT,
	rrule TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time);
`

// Store is a sqlite-backed calendar source.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the calendar database at path.
func Open(path string) (*Store, error) {
	// WAL for concurrent readers, busy timeout to wait instead of failing.
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutEvent inserts or replaces an event. A non-empty rule marks the row as
// the base of a recurring series; StartTime/EndTime then describe the first
// occurrence and its duration.
func (s *Store) PutEvent(ctx context.Context, ev match.EventRecord, rule string) error {
	if ev.ID == "" {
		return fmt.Errorf("event id is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events (id, title, start_time, end_time, is_organizer, is_cancelled, recurring_id, rrule)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.Title, ev.StartTime.UTC(), ev.EndTime.UTC(), ev.IsOrganizer, ev.IsCancelled, nullable(ev.RecurringID), nullable(rule))
	if err != nil {
		return fmt.Errorf("failed to store event %s: %w", ev.ID, err)
	}
	return nil
}

// EventsByStartTime returns events starting exactly at the given instant,
// including occurrences of recurring series landing on it.
func (s *Store) EventsByStartTime(ctx context.Context, start time.Time) ([]match.EventRecord, error) {
	return s.queryWindow(ctx, start.UTC(), start.UTC())
}

// EventsByRange returns events starting within [start, end], ordered by
// start time.
func (s *Store) EventsByRange(ctx context.Context, start, end time.Time) ([]match.EventRecord, error) {
	return s.queryWindow(ctx, start.UTC(), end.UTC())
}

func (s *Store) queryWindow(ctx context.Context, start, end time.Time) ([]match.EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, start_time, end_time, is_organizer, is_cancelled, recurring_id, rrule
		FROM events
		WHERE rrule IS NOT NULL OR (start_time >= ? AND start_time <= ?)
		ORDER BY start_time
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var result []match.EventRecord
	for rows.Next() {
		var ev match.EventRecord
		var recurringID, rule sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.StartTime, &ev.EndTime,
			&ev.IsOrganizer, &ev.IsCancelled, &recurringID, &rule); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.StartTime = ev.StartTime.UTC()
		ev.EndTime = ev.EndTime.UTC()
		ev.RecurringID = recurringID.String

		if !rule.Valid {
			result = append(result, ev)
			continue
		}

		occurrences, err := expandRecurring(ev, rule.String, start, end)
		if err != nil {
			// A malformed rule hides that series, not the whole query.
			continue
		}
		result = append(result, occurrences...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	sortByStart(result)
	return result, nil
}

// expandRecurring materializes the occurrences of a recurring base event
// within [start, end], inclusive.
func expandRecurring(base match.EventRecord, rule string, start, end time.Time) ([]match.EventRecord, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule %q: %w", rule, err)
	}
	opt.Dtstart = base.StartTime
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("failed to build rrule %q: %w", rule, err)
	}

	duration := base.EndTime.Sub(base.StartTime)
	var out []match.EventRecord
	for _, occ := range r.Between(start, end, true) {
		ev := base
		ev.ID = fmt.Sprintf("%s:%s", base.ID, occ.UTC().Format("20060102T150405Z"))
		ev.RecurringID = base.ID
		ev.StartTime = occ.UTC()
		ev.EndTime = occ.UTC().Add(duration)
		out = append(out, ev)
	}
	return out, nil
}

func sortByStart(events []match.EventRecord) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
