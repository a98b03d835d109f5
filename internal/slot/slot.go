// Package slot models the 30-minute availability grid: slots, the blocks they
// merge into, and the candidate ranges an organizer offers.
//
// Dates are "YYYY-MM-DD" and times are "HH:MM" (24-hour, zero-padded). Both
// formats are fixed-width, so lexical order equals chronological order; the
// comparisons below rely on that and nothing else does.
package slot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Duration is the width of one slot in minutes.
const Duration = 30

// SlotsPerDay is the number of slots in a 24-hour day.
const SlotsPerDay = 24 * 60 / Duration

// EndOfDay is the latest valid block end; a block may close at midnight.
const EndOfDay = "24:00"

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrOffGrid           = errors.New("time must fall on a 30-minute boundary")
	ErrCrossesMidnight   = errors.New("range must end by 24:00")
)

// Slot is a single 30-minute unit identified by its date and start time.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// String returns "YYYY-MM-DD@HH:MM".
func (s Slot) String() string {
	return s.Date + "@" + s.Time
}

// Block is a contiguous run of slots on one date, end exclusive.
type Block struct {
	Date  string `json:"date"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// String returns "YYYY-MM-DD HH:MM-HH:MM".
func (b Block) String() string {
	return fmt.Sprintf("%s %s-%s", b.Date, b.Start, b.End)
}

// ContainsTime reports whether t falls in [Start, End).
func (b Block) ContainsTime(t string) bool {
	return CompareTimes(b.Start, t) <= 0 && CompareTimes(t, b.End) < 0
}

// Contains reports whether s lies on the block's date inside [Start, End).
func (b Block) Contains(s Slot) bool {
	return b.Date == s.Date && b.ContainsTime(s.Time)
}

// Slots expands the block into its slots.
func (b Block) Slots() []Slot {
	times := GenerateTimes(b.Start, b.End)
	out := make([]Slot, len(times))
	for i, t := range times {
		out[i] = Slot{Date: b.Date, Time: t}
	}
	return out
}

// Validate checks the block is well-formed, on the grid, and within one day.
func (b Block) Validate() error {
	return validateRange(b.Date, b.Start, b.End)
}

// CandidateRange is an organizer-defined window on one date.
type CandidateRange struct {
	Date  string `json:"date"`
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// Block returns the range as a block with the same bounds.
func (c CandidateRange) Block() Block {
	return Block(c)
}

// Times returns the slot start times inside the range.
func (c CandidateRange) Times() []string {
	return GenerateTimes(c.Start, c.End)
}

// Slots returns every slot inside the range.
func (c CandidateRange) Slots() []Slot {
	return c.Block().Slots()
}

// Contains reports whether s is one of the range's slots.
func (c CandidateRange) Contains(s Slot) bool {
	return c.Block().Contains(s)
}

// Validate checks the range is well-formed, on the grid, and within one day.
func (c CandidateRange) Validate() error {
	return validateRange(c.Date, c.Start, c.End)
}

func validateRange(date, start, end string) error {
	if err := ValidateDate(date); err != nil {
		return err
	}
	for _, t := range []string{start, end} {
		if err := ValidateTime(t); err != nil {
			return err
		}
		if !OnGrid(t) {
			return fmt.Errorf("%w: %s", ErrOffGrid, t)
		}
	}
	if CompareTimes(start, end) >= 0 {
		return ErrEndBeforeStart
	}
	return nil
}

// ValidateDate checks s is a real calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	if len(s) != 10 {
		return ErrInvalidDateFormat
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return ErrInvalidDateFormat
	}
	return nil
}

// ValidateTime checks s is "HH:MM" with HH in 00-24 and MM in 00-59.
// "24:00" is accepted so a range can close at midnight.
func ValidateTime(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, s)
	}
	if !isDigits(s[0:2]) || !isDigits(s[3:5]) {
		return fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, s)
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if mins > 59 || hours > 24 {
		return fmt.Errorf("%w, got %q", ErrInvalidTimeFormat, s)
	}
	if hours*60+mins > 24*60 {
		return fmt.Errorf("%w, got %q", ErrCrossesMidnight, s)
	}
	return nil
}

// ParseSlot parses "YYYY-MM-DD@HH:MM" (a "T" separator is also accepted).
func ParseSlot(s string) (Slot, error) {
	sep := strings.IndexAny(s, "@T")
	if sep < 0 {
		return Slot{}, fmt.Errorf("slot %q: expected DATE@HH:MM", s)
	}
	out := Slot{Date: s[:sep], Time: s[sep+1:]}
	if err := ValidateDate(out.Date); err != nil {
		return Slot{}, fmt.Errorf("slot %q: %w", s, err)
	}
	if err := ValidateTime(out.Time); err != nil {
		return Slot{}, fmt.Errorf("slot %q: %w", s, err)
	}
	if !OnGrid(out.Time) {
		return Slot{}, fmt.Errorf("slot %q: %w", s, ErrOffGrid)
	}
	if out.Time == EndOfDay {
		return Slot{}, fmt.Errorf("slot %q: %w", s, ErrCrossesMidnight)
	}
	return out, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
