package timex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PresentRef is the sentinel signature recognizers emit for "now".
const PresentRef = "PRESENT_REF"

// Signature is the decoded form of a TIMEX expression. A signature tells us
// what kind of instant the recognizer saw (date, clock time, both) and, when
// the date is fully specified, its concrete components.
type Signature struct {
	HasDate    bool
	HasTime    bool
	Definite   bool // date has a concrete year/month/day (no X placeholders)
	PresentRef bool

	Year  int
	Month time.Month
	Day   int

	Hour   int
	Minute int
	Second int
}

// ParseSignature decodes a TIMEX string such as "2024-01-15", "T18:30",
// "2024-01-15T18" or "XXXX-WXX-3". Placeholder components (X) keep the
// signature indefinite but still mark the date dimension as present.
func ParseSignature(timex string) (Signature, error) {
	var sig Signature

	timex = strings.TrimSpace(timex)
	if timex == "" {
		return sig, fmt.Errorf("empty timex expression")
	}
	if timex == PresentRef {
		sig.PresentRef = true
		return sig, nil
	}

	datePart := timex
	timePart := ""
	if i := strings.Index(timex, "T"); i >= 0 {
		datePart = timex[:i]
		timePart = timex[i+1:]
	}

	if datePart != "" {
		sig.HasDate = true
		if !strings.ContainsAny(datePart, "XW") {
			y, m, d, err := parseDateComponents(datePart)
			if err != nil {
				return sig, err
			}
			sig.Definite = true
			sig.Year, sig.Month, sig.Day = y, m, d
		}
	}

	if timePart != "" {
		sig.HasTime = true
		h, min, sec, err := parseTimeComponents(timePart)
		if err != nil {
			return sig, err
		}
		sig.Hour, sig.Minute, sig.Second = h, min, sec
	}

	if !sig.HasDate && !sig.HasTime {
		return sig, fmt.Errorf("timex %q carries neither date nor time", timex)
	}
	return sig, nil
}

func parseDateComponents(s string) (int, time.Month, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("malformed timex date %q", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("malformed timex year %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, 0, fmt.Errorf("malformed timex month %q", parts[1])
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil || d < 1 || d > 31 {
		return 0, 0, 0, fmt.Errorf("malformed timex day %q", parts[2])
	}
	return y, time.Month(m), d, nil
}

func parseTimeComponents(s string) (int, int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("malformed timex time %q", s)
	}
	vals := [3]int{}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, 0, 0, fmt.Errorf("malformed timex time %q", s)
		}
		vals[i] = v
	}
	if vals[0] > 23 || vals[1] > 59 || vals[2] > 59 {
		return 0, 0, 0, fmt.Errorf("timex time %q out of range", s)
	}
	return vals[0], vals[1], vals[2], nil
}

// Describe renders a signature as the natural-language phrase presented to
// the user when several readings (typically AM vs PM) survive resolution.
func (s Signature) Describe() string {
	clock := time.Date(2000, 1, 1, s.Hour, s.Minute, 0, 0, time.UTC).Format("3:04 PM")

	switch {
	case s.PresentRef:
		return "now"
	case s.Definite && s.HasTime:
		return fmt.Sprintf("%s %s at %s", s.Month, ConvertNumberToDateTimeString(s.Day, true), clock)
	case s.Definite:
		return fmt.Sprintf("%s %s", s.Month, ConvertNumberToDateTimeString(s.Day, true))
	case s.HasTime:
		return clock
	default:
		return "that date"
	}
}
