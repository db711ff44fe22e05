package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/danafried/whenish/internal/chooser"
	"github.com/danafried/whenish/internal/config"
	"github.com/danafried/whenish/internal/gcal"
	"github.com/danafried/whenish/internal/ics"
	"github.com/danafried/whenish/internal/match"
	"github.com/danafried/whenish/internal/recognizer"
	"github.com/danafried/whenish/internal/store"
	"github.com/danafried/whenish/internal/timex"
	"github.com/danafried/whenish/internal/tzmap"
)

func main() {
	icsFile := flag.String("ics", "", "import an .ics file into the local store before searching")
	flag.Parse()

	utterance := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if utterance == "" {
		fmt.Fprintln(os.Stderr, "usage: whenish [-ics file] <utterance>")
		os.Exit(2)
	}

	cfg := config.LoadFromEnv()
	loc, err := userLocation(cfg.Timezone)
	if err != nil {
		fatal("loading timezone", err)
	}
	now := time.Now().In(loc)
	ctx := context.Background()

	query, cleanup, err := buildQuery(ctx, cfg, *icsFile)
	if err != nil {
		fatal("setting up calendar source", err)
	}
	defer cleanup()

	rec, err := recognizer.New(cfg.Culture)
	if err != nil {
		fatal("creating recognizer", err)
	}
	recognized := rec.Recognize(utterance, now)

	window := buildWindow(recognized, loc)
	announceReading(recognized, utterance, now, loc)

	session := match.NewSession(match.NewMatcher(query), window)
	state, err := session.Search(ctx)
	if err != nil {
		fatal("searching calendar", err)
	}

	switch state {
	case match.StateZeroMatches:
		color.Yellow("No events match that time. Try another one.")
	case match.StateOneMatch:
		ev, _ := session.Resolved()
		printEvent(ev, loc)
	case match.StateManyMatches:
		color.Cyan("Several events match - which one did you mean?")
		for i, ev := range session.Matches() {
			fmt.Printf("  %d. ", i+1)
			printEvent(ev, loc)
		}
	}
}

// buildQuery picks the calendar backend: Google Calendar when credentials
// are configured, the local sqlite store otherwise.
func buildQuery(ctx context.Context, cfg *config.Config, icsFile string) (match.CalendarQuery, func(), error) {
	if cfg.UseGoogleCalendar() {
		client, err := gcal.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, cfg.GoogleCalendarID)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if icsFile == "" {
		icsFile = cfg.ICSFile
	}
	if icsFile != "" {
		n, err := ics.ImportFile(ctx, st, icsFile)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		fmt.Fprintf(os.Stderr, "imported %d events from %s\n", n, icsFile)
	}
	return st, func() { st.Close() }, nil
}

// buildWindow sorts recognized candidates into the search window's date and
// time fragment lists, resolving each through the TIMEX layer.
func buildWindow(recognized recognizer.Result, loc *time.Location) match.SearchWindow {
	window := match.SearchWindow{Location: loc}

	for _, c := range recognized.Starts {
		sig, err := timex.ParseSignature(c.Timex)
		if err != nil {
			continue
		}
		t, ok := fragmentTime(sig, loc)
		if !ok {
			continue
		}
		if sig.HasDate {
			window.StartDates = append(window.StartDates, t)
		} else {
			window.StartTimes = append(window.StartTimes, t)
		}
	}
	for _, c := range recognized.Ends {
		sig, err := timex.ParseSignature(c.Timex)
		if err != nil {
			continue
		}
		t, ok := fragmentTime(sig, loc)
		if !ok {
			continue
		}
		if sig.HasDate {
			window.EndDates = append(window.EndDates, t)
		} else {
			window.EndTimes = append(window.EndTimes, t)
		}
	}

	return window
}

func fragmentTime(sig timex.Signature, loc *time.Location) (time.Time, bool) {
	switch {
	case sig.Definite:
		return time.Date(sig.Year, sig.Month, sig.Day, sig.Hour, sig.Minute, sig.Second, 0, loc), true
	case sig.HasTime:
		return time.Date(0, 1, 1, sig.Hour, sig.Minute, sig.Second, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// announceReading reports how an ambiguous start was interpreted when a
// single end reading is enough to settle it.
func announceReading(recognized recognizer.Result, utterance string, now time.Time, loc *time.Location) {
	startRes := timex.Resolve(recognized.Starts, utterance, now)
	if len(startRes.Alternatives) == 0 {
		return
	}

	endRes := timex.Resolve(recognized.Ends, utterance, now)

	var starts, ends []time.Time
	for _, in := range startRes.Instants {
		starts = append(starts, in.Value)
	}
	for _, in := range endRes.Instants {
		ends = append(ends, in.Value)
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, loc)

	chosen, err := chooser.ChooseStartTime(starts, ends, dayStart, dayEnd, now)
	if err != nil {
		return
	}
	fmt.Fprintf(os.Stderr, "ambiguous time (%s); reading it as %s\n",
		strings.Join(startRes.Alternatives, " or "), chosen.Format("3:04 PM"))
}

func printEvent(ev match.EventRecord, loc *time.Location) {
	start := ev.StartTime.In(loc).Format("Mon Jan 2 15:04")
	end := ev.EndTime.In(loc).Format("15:04")
	color.Green("%s  %s - %s", ev.Title, start, end)
}

// userLocation loads the configured zone, accepting either an IANA id or a
// Windows id (calendar providers speak the latter). An id neither scheme
// knows is a hard error, never a default zone.
func userLocation(tz string) (*time.Location, error) {
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}
	iana, err := tzmap.Default().WindowsToIana(tz)
	if err != nil {
		return nil, err
	}
	return time.LoadLocation(iana)
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}
