// Package aggregate folds every participant's availability blocks into a
// per-slot count over an event's candidate ranges and picks the best slots.
//
// Compute is pure and recomputed on every view; nothing here is cached.
package aggregate

import (
	"slices"

	"github.com/javiermolinar/awase/internal/slot"
)

// Response is one participant's persisted availability.
type Response struct {
	ID              string       `json:"id,omitempty"`
	ParticipantName string       `json:"participant_name"`
	Blocks          []slot.Block `json:"availability_blocks"`
}

// SlotSummary is the availability of one slot.
type SlotSummary struct {
	Date  string   `json:"date"`
	Time  string   `json:"time"`
	Count int      `json:"count"`
	Names []string `json:"participant_names"`
}

// Slot returns the slot the summary describes.
func (s SlotSummary) Slot() slot.Slot {
	return slot.Slot{Date: s.Date, Time: s.Time}
}

// DateSummary covers one candidate range.
type DateSummary struct {
	Date     string        `json:"date"`
	Slots    []SlotSummary `json:"slots"`
	MaxCount int           `json:"max_count"`
}

// Participants returns the distinct names available at any slot of the
// date, in first-seen order.
func (d DateSummary) Participants() []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range d.Slots {
		for _, n := range s.Names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}

// Result is the aggregated view of an event.
type Result struct {
	Dates             []DateSummary `json:"date_summaries"`
	BestSlots         []SlotSummary `json:"best_slots"`
	TotalParticipants int           `json:"total_participants"`
}

// Compute aggregates responses over ranges. Each range yields one
// DateSummary, in input order. Names within a slot follow response order
// and are never nil, so empty slots encode as [].
// BestSlots holds every slot tied at the global maximum, and is empty when
// nobody is available anywhere.
func Compute(ranges []slot.CandidateRange, responses []Response) Result {
	res := Result{
		Dates:             make([]DateSummary, 0, len(ranges)),
		BestSlots:         []SlotSummary{},
		TotalParticipants: len(responses),
	}

	best := 0
	for _, r := range ranges {
		ds := DateSummary{Date: r.Date}
		for _, t := range r.Times() {
			ss := SlotSummary{Date: r.Date, Time: t, Names: []string{}}
			for _, resp := range responses {
				if available(resp.Blocks, r.Date, t) {
					ss.Count++
					ss.Names = append(ss.Names, resp.ParticipantName)
				}
			}
			ds.MaxCount = max(ds.MaxCount, ss.Count)
			ds.Slots = append(ds.Slots, ss)
		}
		best = max(best, ds.MaxCount)
		res.Dates = append(res.Dates, ds)
	}

	if best == 0 {
		return res
	}
	for _, ds := range res.Dates {
		for _, ss := range ds.Slots {
			if ss.Count == best {
				res.BestSlots = append(res.BestSlots, ss)
			}
		}
	}
	return res
}

// available reports whether any block covers date at t, end exclusive.
func available(blocks []slot.Block, date, t string) bool {
	for _, b := range blocks {
		if b.Date == date && b.ContainsTime(t) {
			return true
		}
	}
	return false
}

// MaxCount returns the highest count across all dates.
func (r Result) MaxCount() int {
	m := 0
	for _, d := range r.Dates {
		m = max(m, d.MaxCount)
	}
	return m
}

// Empty reports whether there are no responses yet.
func (r Result) Empty() bool {
	return r.TotalParticipants == 0
}

// Lookup returns the summary for s, if s lies in a candidate range.
func (r Result) Lookup(s slot.Slot) (SlotSummary, bool) {
	for _, d := range r.Dates {
		if d.Date != s.Date {
			continue
		}
		for _, ss := range d.Slots {
			if ss.Time == s.Time {
				return ss, true
			}
		}
	}
	return SlotSummary{}, false
}

// Counts flattens the result into a slot-to-count map, for overlays.
func (r Result) Counts() map[slot.Slot]int {
	counts := make(map[slot.Slot]int)
	for _, d := range r.Dates {
		for _, ss := range d.Slots {
			counts[ss.Slot()] = ss.Count
		}
	}
	return counts
}

// IsBest reports whether s is one of the best slots.
func (r Result) IsBest(s slot.Slot) bool {
	for _, b := range r.BestSlots {
		if b.Slot() == s {
			return true
		}
	}
	return false
}

// Window is a run of adjacent slots on one date shared by the same
// participants. End is exclusive.
type Window struct {
	Date  string
	Start string
	End   string
	Count int
	Names []string
}

// Minutes returns the window length.
func (w Window) Minutes() int {
	return slot.TimeToMinutes(w.End) - slot.TimeToMinutes(w.Start)
}

// Windows collapses sorted slots into runs with identical participant
// lists. Slots nobody can make are omitted.
func Windows(slots []SlotSummary) []Window {
	var out []Window
	for _, s := range slots {
		if s.Count == 0 {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.Date == s.Date && last.End == s.Time && slices.Equal(last.Names, s.Names) {
				last.End = slot.Next(s.Time)
				continue
			}
		}
		out = append(out, Window{Date: s.Date, Start: s.Time, End: slot.Next(s.Time), Count: s.Count, Names: s.Names})
	}
	return out
}

// BestWindows returns the best slots collapsed into windows.
func (r Result) BestWindows() []Window {
	return Windows(r.BestSlots)
}

// HeatLevel buckets count relative to the date maximum: 0 when count is
// zero, otherwise 1-5 by ratio steps of 0.2.
func HeatLevel(count, maxCount int) int {
	if count <= 0 {
		return 0
	}
	ratio := float64(count) / float64(max(maxCount, 1))
	switch {
	case ratio >= 0.8:
		return 5
	case ratio >= 0.6:
		return 4
	case ratio >= 0.4:
		return 3
	case ratio >= 0.2:
		return 2
	default:
		return 1
	}
}
