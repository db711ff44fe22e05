package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/danafried/whenish/internal/match"
)

// EventsByStartTime returns events starting exactly at the given instant.
// The API has no exact-start filter, so a one-minute window is listed and
// narrowed here.
func (c *Client) EventsByStartTime(ctx context.Context, start time.Time) ([]match.EventRecord, error) {
	events, err := c.listRange(ctx, start, start.Add(time.Minute))
	if err != nil {
		return nil, err
	}

	exact := events[:0:0]
	for _, ev := range events {
		if ev.StartTime.Equal(start.UTC()) {
			exact = append(exact, ev)
		}
	}
	return exact, nil
}

// EventsByRange returns events starting within [start, end].
func (c *Client) EventsByRange(ctx context.Context, start, end time.Time) ([]match.EventRecord, error) {
	return c.listRange(ctx, start, end)
}

func (c *Client) listRange(ctx context.Context, timeMin, timeMax time.Time) ([]match.EventRecord, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if timeMax.Before(timeMin) {
		return nil, fmt.Errorf("invalid range: time_max is before time_min")
	}

	var result []match.EventRecord
	pageToken := ""

	for {
		call := c.service.Events.List(c.calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, item := range events.Items {
			record, ok := toRecord(item)
			if !ok {
				continue
			}
			result = append(result, record)
		}

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	return result, nil
}

// toRecord converts an API event, skipping malformed ones rather than
// failing the whole listing.
func toRecord(item *calendar.Event) (match.EventRecord, bool) {
	var record match.EventRecord
	if item == nil || item.Start == nil || item.End == nil {
		return record, false
	}
	if item.Start.DateTime == "" || item.End.DateTime == "" {
		// All-day events carry Date instead of DateTime; a time search
		// has nothing to match them against.
		return record, false
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return record, false
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return record, false
	}

	record = match.EventRecord{
		ID:          item.Id,
		Title:       item.Summary,
		StartTime:   startTime.UTC(),
		EndTime:     endTime.UTC(),
		IsCancelled: item.Status == "cancelled",
		RecurringID: item.RecurringEventId,
	}
	if item.Organizer != nil {
		record.IsOrganizer = item.Organizer.Self
	}
	return record, true
}
