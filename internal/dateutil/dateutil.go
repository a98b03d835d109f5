// Package dateutil turns user-typed dates and ranges into candidate ranges.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/awase/internal/slot"
)

const dateLayout = "2006-01-02"

// maxRangeDays bounds how many days a --from/--to range may expand into.
const maxRangeDays = 62

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be YYYY-MM-DD, today, tomorrow, a weekday or next-<weekday>")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrDateInPast         = errors.New("date is in the past")
	ErrRangeTooLong       = fmt.Errorf("date range must span at most %d days", maxRangeDays)
	ErrInvalidCandidate   = errors.New("candidate must look like DATE,HH:MM,HH:MM")
)

var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange resolves both ends relative to now.
// An empty end defaults to the start.
func NewDateRange(from, to string, now time.Time) (*DateRange, error) {
	start, err := ParseRelativeDate(from, now)
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	end := start
	if to != "" {
		end, err = ParseRelativeDate(to, now)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}
	if end.Sub(start) >= maxRangeDays*24*time.Hour {
		return nil, ErrRangeTooLong
	}
	return &DateRange{Start: start, End: end}, nil
}

// Days returns every date in the range as YYYY-MM-DD, skipping days for
// which keep returns false. A nil keep keeps every day.
func (r *DateRange) Days(keep func(time.Weekday) bool) []string {
	var out []string
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		if keep != nil && !keep(d.Weekday()) {
			continue
		}
		out = append(out, d.Format(dateLayout))
	}
	return out
}

// Candidates expands the range into one candidate per kept day, all with
// the same hours.
func (r *DateRange) Candidates(start, end string, keep func(time.Weekday) bool) ([]slot.CandidateRange, error) {
	var out []slot.CandidateRange
	for _, date := range r.Days(keep) {
		c := slot.CandidateRange{Date: date, Start: start, End: end}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseCandidate parses "DATE,HH:MM,HH:MM" or "DATE HH:MM-HH:MM", where
// DATE is anything ParseRelativeDate accepts.
func ParseCandidate(s string, now time.Time) (slot.CandidateRange, error) {
	var date, start, end string
	if parts := strings.Split(s, ","); len(parts) == 3 {
		date, start, end = parts[0], strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])
	} else {
		fields := strings.Fields(s)
		if len(fields) != 2 {
			return slot.CandidateRange{}, fmt.Errorf("%w, got %q", ErrInvalidCandidate, s)
		}
		var ok bool
		date = fields[0]
		start, end, ok = strings.Cut(fields[1], "-")
		if !ok {
			return slot.CandidateRange{}, fmt.Errorf("%w, got %q", ErrInvalidCandidate, s)
		}
	}

	d, err := ParseRelativeDate(date, now)
	if err != nil {
		return slot.CandidateRange{}, err
	}

	c := slot.CandidateRange{Date: d.Format(dateLayout), Start: start, End: end}
	if err := c.Validate(); err != nil {
		return slot.CandidateRange{}, err
	}
	return c, nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive.
// Returns ErrDateInPast if the resulting date is before relativeTo (truncated to day).
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	name := strings.TrimPrefix(input, "next-")
	if target, ok := weekdayMap[name]; ok {
		return nextWeekday(today, target), nil
	}
	if name != input {
		return time.Time{}, ErrInvalidDateFormat
	}

	result, err := time.ParseInLocation(dateLayout, input, today.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	if result.Before(today) {
		return time.Time{}, ErrDateInPast
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
