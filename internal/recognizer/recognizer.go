// Package recognizer extracts date/time candidates from free-form English
// utterances. It is deterministic keyword and pattern matching, not a
// language model: ambiguous readings are emitted as multiple candidates and
// left for the resolution layer to settle.
package recognizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/danafried/whenish/internal/timex"
)

// Result carries the candidates recognized from one utterance, separated
// into the start and end roles they occupied in the phrasing.
type Result struct {
	Starts []timex.Candidate
	Ends   []timex.Candidate
}

// Recognizer holds the compiled patterns. Construct once and reuse; the
// struct is immutable after New.
type Recognizer struct {
	culture string

	rangeRe    *regexp.Regexp
	clockRe    *regexp.Regexp
	isoDateRe  *regexp.Regexp
	monthDayRe *regexp.Regexp
	weekdayRe  *regexp.Regexp
}

// New builds a Recognizer. The culture string selects the recognizer and is
// not otherwise interpreted; only English cultures are supported.
func New(culture string) (*Recognizer, error) {
	if culture != "" && !strings.HasPrefix(strings.ToLower(culture), "en") {
		return nil, fmt.Errorf("unsupported recognizer culture %q", culture)
	}
	return &Recognizer{
		culture:    culture,
		rangeRe:    regexp.MustCompile(`(?i)from\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s+(?:to|until|till)\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?`),
		clockRe:    regexp.MustCompile(`(?i)\b(?:at\s+)?(\d{1,2})(?::(\d{2}))?\s*(am|pm|o'clock)\b`),
		isoDateRe:  regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`),
		monthDayRe: regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`),
		weekdayRe:  regexp.MustCompile(`(?i)\bnext\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	}, nil
}

// Recognize scans an utterance for date and time expressions. now anchors
// relative phrasings and supplies the year for month-name dates.
func (r *Recognizer) Recognize(utterance string, now time.Time) Result {
	var res Result

	if m := r.rangeRe.FindStringSubmatch(utterance); m != nil {
		res.Starts = append(res.Starts, clockCandidates(m[1], m[2], m[3])...)
		res.Ends = append(res.Ends, clockCandidates(m[4], m[5], m[6])...)
	} else if m := r.clockRe.FindStringSubmatch(utterance); m != nil {
		meridiem := m[3]
		if strings.EqualFold(meridiem, "o'clock") {
			meridiem = ""
		}
		res.Starts = append(res.Starts, clockCandidates(m[1], m[2], meridiem)...)
	}

	if date, ok := r.recognizeDate(utterance, now); ok {
		res.Starts = append(res.Starts, date)
	}

	return res
}

func (r *Recognizer) recognizeDate(utterance string, now time.Time) (timex.Candidate, bool) {
	lowered := strings.ToLower(utterance)

	switch {
	case strings.Contains(lowered, "today"):
		return dateCandidate(now), true
	case strings.Contains(lowered, "tomorrow"):
		return dateCandidate(now.AddDate(0, 0, 1)), true
	case strings.Contains(lowered, "yesterday"):
		return dateCandidate(now.AddDate(0, 0, -1)), true
	}

	if m := r.weekdayRe.FindStringSubmatch(utterance); m != nil {
		target := weekdays[strings.ToLower(m[1])]
		days := (int(target) - int(now.Weekday()) + 7) % 7
		if days == 0 {
			days = 7
		}
		return dateCandidate(now.AddDate(0, 0, days)), true
	}

	if m := r.isoDateRe.FindStringSubmatch(utterance); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return dateCandidate(time.Date(y, time.Month(mo), d, 0, 0, 0, 0, now.Location())), true
	}

	if m := r.monthDayRe.FindStringSubmatch(utterance); m != nil {
		mo := months[strings.ToLower(m[1])]
		d, _ := strconv.Atoi(m[2])
		date := time.Date(now.Year(), mo, d, 0, 0, 0, 0, now.Location())
		// A month already past refers to next year.
		if date.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())) {
			date = date.AddDate(1, 0, 0)
		}
		return dateCandidate(date), true
	}

	return timex.Candidate{}, false
}

// clockCandidates renders a clock reading as TIMEX candidates. An explicit
// meridiem pins the hour; a bare 1..12 stays ambiguous and emits both the
// AM and PM reading, in that order.
func clockCandidates(hourStr, minuteStr, meridiem string) []timex.Candidate {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minuteStr != "" {
		minute, _ = strconv.Atoi(minuteStr)
	}

	switch strings.ToLower(meridiem) {
	case "am":
		if hour == 12 {
			hour = 0
		}
		return []timex.Candidate{timeCandidate(hour, minute)}
	case "pm":
		if hour < 12 {
			hour += 12
		}
		return []timex.Candidate{timeCandidate(hour, minute)}
	}

	if hour >= 13 || hour == 0 {
		// 24-hour phrasing is already unambiguous.
		return []timex.Candidate{timeCandidate(hour, minute)}
	}
	return []timex.Candidate{
		timeCandidate(hour%12, minute),
		timeCandidate(hour%12+12, minute),
	}
}

func timeCandidate(hour, minute int) timex.Candidate {
	return timex.Candidate{
		Value: fmt.Sprintf("%02d:%02d", hour, minute),
		Timex: fmt.Sprintf("T%02d:%02d", hour, minute),
	}
}

func dateCandidate(t time.Time) timex.Candidate {
	s := t.Format("2006-01-02")
	return timex.Candidate{Value: s, Timex: s}
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}
