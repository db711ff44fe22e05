// Package timex turns the raw date/time candidates a natural-language
// recognizer produces into concrete instants. Recognizers deliberately leave
// ambiguity in place ("6 o'clock" is both 06:00 and 18:00); this package
// resolves what can be resolved and surfaces the rest as described
// alternatives for the caller to disambiguate.
package timex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Candidate is one recognizer reading of a date/time expression: the
// resolved value string plus the TIMEX expression describing its shape.
type Candidate struct {
	Value string
	Timex string
}

// ResolvedInstant is a candidate promoted to a concrete point in time.
// The value carries the user's location but no provider conversion yet.
type ResolvedInstant struct {
	Value      time.Time
	IsDefinite bool
	IsRelative bool
}

// Resolution is the outcome of resolving one utterance's candidates.
// Alternatives is populated only when rival readings of the same kind
// survive, in which case the caller must ask the user (or apply
// chooser.ChooseStartTime when an end time constrains the answer).
type Resolution struct {
	Instants     []ResolvedInstant
	Alternatives []string
}

// relativeVocabulary are the utterance words that force an instant to be
// reinterpreted against the user's local clock rather than taken verbatim.
var relativeVocabulary = []string{
	"ago", "before", "later", "next", "today", "now", "yesterday", "tomorrow",
}

// IsRelativeTime reports whether a recognized instant must be anchored to
// the caller's current local time.
func IsRelativeTime(utterance, value, timex string) bool {
	if timex == PresentRef {
		return true
	}
	lowered := strings.ToLower(utterance)
	for _, word := range relativeVocabulary {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// valueLayouts are the formats recognizer value strings arrive in.
var valueLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// parseValue parses a recognizer value string in the user's location.
// Time-only values are anchored to now's calendar date.
func parseValue(value string, now time.Time) (time.Time, bool) {
	loc := now.Location()
	for _, layout := range valueLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		if layout == "15:04:05" || layout == "15:04" {
			t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
		}
		return t, true
	}
	return time.Time{}, false
}

// Resolve converts the recognizer candidates for a single utterance into
// resolved instants. Candidates whose value fails to parse are skipped:
// a bad reading must never abort resolution of the good ones.
func Resolve(candidates []Candidate, utterance string, now time.Time) Resolution {
	var res Resolution

	// Distinct TIMEX signatures, in first-seen order. The recognizer emits
	// one candidate per reading, so two signatures means AM/PM ambiguity.
	seen := make(map[string]bool)
	var distinct []Candidate
	for _, c := range candidates {
		if seen[c.Timex] {
			continue
		}
		seen[c.Timex] = true
		distinct = append(distinct, c)
	}

	relative := false
	for _, c := range distinct {
		if IsRelativeTime(utterance, c.Value, c.Timex) {
			relative = true
			break
		}
	}

	var sigs []Signature
	for _, c := range distinct {
		sig, err := ParseSignature(c.Timex)
		if err != nil {
			continue
		}

		var value time.Time
		switch {
		case sig.PresentRef:
			value = now
		case sig.Definite && sig.HasTime:
			value = time.Date(sig.Year, sig.Month, sig.Day, sig.Hour, sig.Minute, sig.Second, 0, now.Location())
		case sig.Definite:
			value = time.Date(sig.Year, sig.Month, sig.Day, 0, 0, 0, 0, now.Location())
		default:
			parsed, ok := parseValue(c.Value, now)
			if !ok {
				continue
			}
			value = parsed
		}

		sigs = append(sigs, sig)
		res.Instants = append(res.Instants, ResolvedInstant{
			Value:      value,
			IsDefinite: sig.Definite,
			IsRelative: relative || sig.PresentRef,
		})
	}

	// Rival readings of the same kind: never pick silently. A date
	// fragment alongside a time fragment describes one combined instant,
	// not an ambiguity, so only same-kind collisions are surfaced.
	counts := make(map[string]int)
	for _, sig := range sigs {
		counts[readingKind(sig)]++
	}
	for _, sig := range sigs {
		if counts[readingKind(sig)] > 1 {
			res.Alternatives = append(res.Alternatives, sig.Describe())
		}
	}
	return res
}

// readingKind buckets a signature by what it resolves: a clock time, a
// calendar date, a full instant, or the present moment.
func readingKind(sig Signature) string {
	switch {
	case sig.PresentRef:
		return "present"
	case sig.HasDate && sig.HasTime:
		return "datetime"
	case sig.HasDate:
		return "date"
	default:
		return "time"
	}
}

// ConvertNumberToDateTimeString renders a bare number the way it reads in a
// date or time description: a day of month gets its English ordinal suffix,
// an hour becomes a whole-hour clock string. Anything out of range passes
// through unchanged.
func ConvertNumberToDateTimeString(n int, asDate bool) string {
	if asDate {
		if n < 1 || n > 31 {
			return strconv.Itoa(n)
		}
		suffix := "th"
		if n%100 < 11 || n%100 > 13 {
			switch n % 10 {
			case 1:
				suffix = "st"
			case 2:
				suffix = "nd"
			case 3:
				suffix = "rd"
			}
		}
		return fmt.Sprintf("%d%s", n, suffix)
	}

	if n < 0 || n > 24 {
		return strconv.Itoa(n)
	}
	return fmt.Sprintf("%d:00", n)
}
