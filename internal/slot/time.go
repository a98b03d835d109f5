package slot

import (
	"fmt"
	"strings"
)

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 || !isDigits(t[0:2]) || !isDigits(t[3:5]) {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM".
// Values past midnight are not clamped: 1440 is "24:00".
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// AddMinutes returns t shifted by n minutes.
func AddMinutes(t string, n int) string {
	return MinutesToTime(TimeToMinutes(t) + n)
}

// Next returns the start of the slot following t.
func Next(t string) string {
	return AddMinutes(t, Duration)
}

// GenerateTimes returns start, start+30, ... while strictly before end.
// It is empty when start >= end. Output is capped at one day of slots so a
// malformed end can never loop forever.
func GenerateTimes(start, end string) []string {
	var times []string
	for cur := start; CompareTimes(cur, end) < 0 && len(times) <= SlotsPerDay; cur = Next(cur) {
		times = append(times, cur)
	}
	return times
}

// CompareTimes orders two "HH:MM" strings. Valid only for the fixed,
// zero-padded format.
func CompareTimes(a, b string) int {
	return strings.Compare(a, b)
}

// CompareDates orders two "YYYY-MM-DD" strings.
func CompareDates(a, b string) int {
	return strings.Compare(a, b)
}

// CompareSlots orders slots by date, then time.
func CompareSlots(a, b Slot) int {
	if c := CompareDates(a.Date, b.Date); c != 0 {
		return c
	}
	return CompareTimes(a.Time, b.Time)
}

// OnGrid reports whether t starts a 30-minute slot.
func OnGrid(t string) bool {
	return TimeToMinutes(t)%Duration == 0
}
