package slot

import (
	"slices"
)

// Merge compresses slots into maximal contiguous blocks.
//
// Slots are grouped by date in first-seen order; within a date they are
// sorted by time and walked once, extending the open block whenever the next
// slot starts exactly at its end. Output is not globally sorted; use
// SortBlocks when a stable order matters. Duplicate slots are absorbed.
func Merge(slots []Slot) []Block {
	if len(slots) == 0 {
		return nil
	}

	var dates []string
	byDate := make(map[string][]string)
	for _, s := range slots {
		if _, ok := byDate[s.Date]; !ok {
			dates = append(dates, s.Date)
		}
		byDate[s.Date] = append(byDate[s.Date], s.Time)
	}

	var blocks []Block
	for _, date := range dates {
		times := byDate[date]
		slices.SortFunc(times, CompareTimes)

		current := Block{Date: date, Start: times[0], End: Next(times[0])}
		for _, t := range times[1:] {
			switch {
			case t == current.End:
				current.End = Next(t)
			case CompareTimes(t, current.End) < 0:
				// already covered by the open block
			default:
				blocks = append(blocks, current)
				current = Block{Date: date, Start: t, End: Next(t)}
			}
		}
		blocks = append(blocks, current)
	}
	return blocks
}

// Expand is the inverse of Merge: every block becomes its slots, in block
// order.
func Expand(blocks []Block) []Slot {
	var slots []Slot
	for _, b := range blocks {
		slots = append(slots, b.Slots()...)
	}
	return slots
}

// SortBlocks orders blocks by date, then start time, in place.
func SortBlocks(blocks []Block) {
	slices.SortStableFunc(blocks, func(a, b Block) int {
		if c := CompareDates(a.Date, b.Date); c != 0 {
			return c
		}
		return CompareTimes(a.Start, b.Start)
	})
}

// SortRanges orders candidate ranges by date, then start time, in place.
func SortRanges(ranges []CandidateRange) {
	slices.SortStableFunc(ranges, func(a, b CandidateRange) int {
		if c := CompareDates(a.Date, b.Date); c != 0 {
			return c
		}
		return CompareTimes(a.Start, b.Start)
	})
}

// SortSlots orders slots by date, then time, in place.
func SortSlots(slots []Slot) {
	slices.SortFunc(slots, CompareSlots)
}
