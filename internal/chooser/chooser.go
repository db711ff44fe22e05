// Package chooser picks a single start time out of the ambiguous readings a
// recognizer can leave behind. A recognizer may hand back both an AM and a PM
// reading of "6 o'clock"; downstream scheduling needs exactly one, so the
// selection policy lives here in one place.
package chooser

import (
	"fmt"
	"time"
)

// ChooseStartTime selects one start instant from up to two candidates.
//
// The policy, in order:
//  1. A single candidate is never ambiguous.
//  2. A single end time constrains the answer: a start reading after the end
//     is self-inconsistent, so the other reading wins.
//  3. A first candidate already in the past means the user wants the later
//     occurrence.
//  4. Otherwise prefer whichever candidate falls inside the allowed
//     [startRestriction, endRestriction] window, first candidate on a tie.
//  5. Failing all of that, the first candidate.
func ChooseStartTime(startTimes, endTimes []time.Time, startRestriction, endRestriction, userNow time.Time) (time.Time, error) {
	if len(startTimes) == 0 {
		return time.Time{}, fmt.Errorf("no start time candidates")
	}
	if len(startTimes) == 1 {
		return startTimes[0], nil
	}

	if len(endTimes) == 1 {
		if startTimes[1].After(endTimes[0]) {
			return startTimes[0], nil
		}
		return startTimes[1], nil
	}

	if startTimes[0].Before(userNow) {
		return startTimes[1], nil
	}

	if IsInRange(startTimes[0], startRestriction, endRestriction) {
		return startTimes[0], nil
	}
	if IsInRange(startTimes[1], startRestriction, endRestriction) {
		return startTimes[1], nil
	}

	return startTimes[0], nil
}

// IsInRange reports whether t falls within [lo, hi], both bounds inclusive.
func IsInRange(t, lo, hi time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}
