// Package selection holds the set of slots a participant has marked
// available while editing a response.
//
// Selection is an immutable value: every operation returns a new Selection
// and leaves the receiver untouched, so snapshots can be kept for undo by
// reference. Store wraps it with a reducer and history for the editors.
package selection

import (
	"github.com/javiermolinar/awase/internal/slot"
)

// Selection is an unordered set of unique slots.
// The zero value is an empty selection ready to use.
type Selection struct {
	set map[slot.Slot]struct{}
}

// New returns a selection holding slots, duplicates dropped.
func New(slots ...slot.Slot) Selection {
	return Selection{}.AddRange(slots)
}

// FromBlocks expands persisted blocks into a selection.
func FromBlocks(blocks []slot.Block) Selection {
	return New(slot.Expand(blocks)...)
}

// Len returns the number of selected slots.
func (s Selection) Len() int {
	return len(s.set)
}

// IsSelected reports membership.
func (s Selection) IsSelected(sl slot.Slot) bool {
	_, ok := s.set[sl]
	return ok
}

// Toggle removes sl if present, adds it otherwise.
func (s Selection) Toggle(sl slot.Slot) Selection {
	next := s.clone(1)
	if _, ok := next.set[sl]; ok {
		delete(next.set, sl)
	} else {
		next.set[sl] = struct{}{}
	}
	return next
}

// AddRange adds every slot not already present.
func (s Selection) AddRange(slots []slot.Slot) Selection {
	next := s.clone(len(slots))
	for _, sl := range slots {
		next.set[sl] = struct{}{}
	}
	return next
}

// RemoveRange removes the given slots; absent slots are ignored.
func (s Selection) RemoveRange(slots []slot.Slot) Selection {
	next := s.clone(0)
	for _, sl := range slots {
		delete(next.set, sl)
	}
	return next
}

// Clear returns an empty selection.
func (s Selection) Clear() Selection {
	return Selection{}
}

// Slots returns the selected slots ordered by date, then time.
func (s Selection) Slots() []slot.Slot {
	out := make([]slot.Slot, 0, len(s.set))
	for sl := range s.set {
		out = append(out, sl)
	}
	slot.SortSlots(out)
	return out
}

// Blocks merges the selection into its persisted form, sorted by date and
// start time.
func (s Selection) Blocks() []slot.Block {
	blocks := slot.Merge(s.Slots())
	slot.SortBlocks(blocks)
	return blocks
}

// Equal reports whether both selections hold the same slots.
func (s Selection) Equal(o Selection) bool {
	if len(s.set) != len(o.set) {
		return false
	}
	for sl := range s.set {
		if _, ok := o.set[sl]; !ok {
			return false
		}
	}
	return true
}

func (s Selection) clone(extra int) Selection {
	set := make(map[slot.Slot]struct{}, len(s.set)+extra)
	for sl := range s.set {
		set[sl] = struct{}{}
	}
	return Selection{set: set}
}
