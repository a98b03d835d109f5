package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/awase/internal/config"
	"github.com/javiermolinar/awase/internal/dateutil"
	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/slot"
)

var errNameRequired = errors.New("--name is required with --slot or --block")

// candidateFlags are the ways a command can describe candidate times.
type candidateFlags struct {
	candidates []string
	from, to   string
	hours      string
}

func (f candidateFlags) empty() bool {
	return len(f.candidates) == 0 && f.from == ""
}

// parse resolves explicit candidates plus an optional date range expanded
// over the configured weekdays.
func (f candidateFlags) parse(cfg *config.Config, now time.Time) ([]slot.CandidateRange, error) {
	var out []slot.CandidateRange
	for _, s := range f.candidates {
		c, err := dateutil.ParseCandidate(s, now)
		if err != nil {
			return nil, fmt.Errorf("--candidate %q: %w", s, err)
		}
		out = append(out, c)
	}

	if f.from == "" {
		if f.to != "" {
			return nil, errors.New("--to needs --from")
		}
		return out, nil
	}

	start, end, err := parseHours(f.hours, cfg)
	if err != nil {
		return nil, err
	}
	r, err := dateutil.NewDateRange(f.from, f.to, now)
	if err != nil {
		return nil, err
	}
	keep := func(d time.Weekday) bool { return cfg.IsCandidateDay(d.String()) }
	expanded, err := r.Candidates(start, end, keep)
	if err != nil {
		return nil, fmt.Errorf("--hours %s-%s: %w", start, end, err)
	}
	if len(expanded) == 0 {
		return nil, fmt.Errorf("no %s between %s and %s",
			strings.Join(cfg.Event.Weekdays, "/"), r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	return append(out, expanded...), nil
}

// parseHours parses "HH:MM-HH:MM", defaulting to the configured hours.
func parseHours(s string, cfg *config.Config) (start, end string, err error) {
	if s == "" {
		return cfg.Event.DefaultStart, cfg.Event.DefaultEnd, nil
	}
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return "", "", fmt.Errorf("--hours %q: expected HH:MM-HH:MM", s)
	}
	return strings.TrimSpace(start), strings.TrimSpace(end), nil
}

// parseAvailability turns --slot and --block values into merged blocks,
// rejecting anything outside the event's candidate times.
func parseAvailability(e *event.Event, slots, blocks []string, now time.Time) ([]slot.Block, error) {
	var all []slot.Slot
	for _, s := range slots {
		sl, err := slot.ParseSlot(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		all = append(all, sl)
	}
	for _, b := range blocks {
		c, err := dateutil.ParseCandidate(b, now)
		if err != nil {
			return nil, fmt.Errorf("--block %q: %w", b, err)
		}
		all = append(all, c.Slots()...)
	}

	for _, s := range all {
		if !e.Accepts(s) {
			return nil, fmt.Errorf("%s is not a candidate time", s)
		}
	}
	return slot.Merge(all), nil
}
