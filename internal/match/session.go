package match

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNoTimeCollected is returned when a search runs before any
	// date/time fragment has been collected.
	ErrNoTimeCollected = errors.New("no date or time collected")

	// ErrNoSuchChoice is returned when a disambiguating reply matches no
	// pending candidate.
	ErrNoSuchChoice = errors.New("choice matches no candidate event")
)

// State tracks where a disambiguation session stands across turns.
type State int

const (
	StateNoTimeCollected State = iota
	StateZeroMatches
	StateOneMatch
	StateManyMatches
)

func (s State) String() string {
	switch s {
	case StateNoTimeCollected:
		return "no-time-collected"
	case StateZeroMatches:
		return "zero-matches"
	case StateOneMatch:
		return "one-match"
	case StateManyMatches:
		return "many-matches"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session holds the per-conversation slot-filling state: the fragments
// collected so far, the last search outcome, and the resolved event once
// disambiguation finishes.
type Session struct {
	matcher *Matcher
	window  SearchWindow

	state    State
	matches  []EventRecord
	resolved *EventRecord
}

func NewSession(matcher *Matcher, window SearchWindow) *Session {
	return &Session{matcher: matcher, window: window, state: StateNoTimeCollected}
}

func (s *Session) State() State { return s.state }

// Window exposes the accumulating fragments for the caller to slot-fill.
func (s *Session) Window() *SearchWindow { return &s.window }

// Matches returns the candidates of the last search, in backend order.
func (s *Session) Matches() []EventRecord { return s.matches }

// Resolved returns the chosen event once the session reached one match.
func (s *Session) Resolved() (EventRecord, bool) {
	if s.resolved == nil {
		return EventRecord{}, false
	}
	return *s.resolved, true
}

// Search runs the collected fragments against the calendar. Zero matches
// clears the fragments (a failed guess is not retained) and sends the
// session back to collecting; one match resolves; more than one leaves the
// session waiting for a disambiguating choice.
func (s *Session) Search(ctx context.Context) (State, error) {
	if s.window.Empty() {
		s.state = StateNoTimeCollected
		return s.state, ErrNoTimeCollected
	}

	events, err := s.matcher.FindEvents(ctx, &s.window)
	if err != nil {
		return s.state, err
	}

	s.matches = events
	switch len(events) {
	case 0:
		s.window.Clear()
		s.state = StateZeroMatches
	case 1:
		ev := events[0]
		s.resolved = &ev
		s.state = StateOneMatch
	default:
		s.state = StateManyMatches
	}
	return s.state, nil
}

// Choose resolves a many-match session from the user's reply: a 1-based
// index into the presented list, or an exact (case-insensitive) title.
func (s *Session) Choose(reply string) (EventRecord, error) {
	if s.state != StateManyMatches {
		return EventRecord{}, fmt.Errorf("no disambiguation pending (state %s)", s.state)
	}

	reply = strings.TrimSpace(reply)
	if n, err := strconv.Atoi(reply); err == nil {
		if n < 1 || n > len(s.matches) {
			return EventRecord{}, fmt.Errorf("index %d out of 1..%d: %w", n, len(s.matches), ErrNoSuchChoice)
		}
		return s.resolve(s.matches[n-1]), nil
	}

	for _, ev := range s.matches {
		if strings.EqualFold(ev.Title, reply) {
			return s.resolve(ev), nil
		}
	}
	return EventRecord{}, fmt.Errorf("title %q: %w", reply, ErrNoSuchChoice)
}

func (s *Session) resolve(ev EventRecord) EventRecord {
	s.resolved = &ev
	s.state = StateOneMatch
	return ev
}
