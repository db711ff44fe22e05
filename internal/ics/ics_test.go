package ics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danafried/whenish/internal/store"
)

const sampleCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//whenish//test//EN
BEGIN:VEVENT
UID:meeting-1
SUMMARY:Team Meeting
DTSTART:20240116T140000Z
DTEND:20240116T150000Z
ORGANIZER:mailto:dana@example.com
END:VEVENT
BEGIN:VEVENT
UID:cancelled-1
SUMMARY:Cancelled Sync
STATUS:CANCELLED
DTSTART:20240116T160000Z
DTEND:20240116T170000Z
END:VEVENT
BEGIN:VEVENT
UID:standup
SUMMARY:Standup
DTSTART:20240116T090000Z
DTEND:20240116T093000Z
RRULE:FREQ=WEEKLY;COUNT=4
END:VEVENT
BEGIN:VEVENT
SUMMARY:No UID event
DTSTART:20240116T180000Z
DTEND:20240116T190000Z
END:VEVENT
END:VCALENDAR
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleCalendar))
	require.NoError(t, err)
	require.Len(t, entries, 3, "the UID-less event is skipped")

	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.Event.ID] = e
	}

	meeting, ok := byID["meeting-1"]
	require.True(t, ok)
	assert.Equal(t, "Team Meeting", meeting.Event.Title)
	assert.True(t, meeting.Event.StartTime.Equal(time.Date(2024, 1, 16, 14, 0, 0, 0, time.UTC)))
	assert.True(t, meeting.Event.EndTime.Equal(time.Date(2024, 1, 16, 15, 0, 0, 0, time.UTC)))
	assert.True(t, meeting.Event.IsOrganizer)
	assert.False(t, meeting.Event.IsCancelled)
	assert.Empty(t, meeting.RRule)

	cancelled, ok := byID["cancelled-1"]
	require.True(t, ok)
	assert.True(t, cancelled.Event.IsCancelled)

	standup, ok := byID["standup"]
	require.True(t, ok)
	assert.Equal(t, "FREQ=WEEKLY;COUNT=4", standup.RRule)
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse(strings.NewReader("not a calendar"))
	assert.Error(t, err)
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calendar.ics")
	require.NoError(t, os.WriteFile(path, []byte(sampleCalendar), 0644))

	st, err := store.Open(filepath.Join(dir, "calendar.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	n, err := ImportFile(ctx, st, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// The imported recurring event answers windowed queries.
	got, err := st.EventsByStartTime(ctx, time.Date(2024, 1, 23, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Standup", got[0].Title)
}

func TestImportFile_MissingFile(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "calendar.db"))
	require.NoError(t, err)
	defer st.Close()

	_, err = ImportFile(context.Background(), st, "/does/not/exist.ics")
	assert.Error(t, err)
}
