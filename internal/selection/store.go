package selection

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/awase/internal/slot"
)

// Store errors.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrUnknownOp     = errors.New("unknown selection op")
)

const defaultMaxHistory = 50

// Op names a selection command.
type Op int

const (
	OpToggle Op = iota
	OpAddRange
	OpRemoveRange
	OpClear
	OpLoad
)

func (o Op) String() string {
	switch o {
	case OpToggle:
		return "toggle"
	case OpAddRange:
		return "add"
	case OpRemoveRange:
		return "remove"
	case OpClear:
		return "clear"
	case OpLoad:
		return "load"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is one edit to a selection. Toggle reads Slots[0]; Load reads
// Blocks.
type Command struct {
	Op     Op
	Slots  []slot.Slot
	Blocks []slot.Block
}

// Toggle builds a toggle command for one slot.
func Toggle(sl slot.Slot) Command { return Command{Op: OpToggle, Slots: []slot.Slot{sl}} }

// AddRange builds an add command.
func AddRange(slots ...slot.Slot) Command { return Command{Op: OpAddRange, Slots: slots} }

// RemoveRange builds a remove command.
func RemoveRange(slots ...slot.Slot) Command { return Command{Op: OpRemoveRange, Slots: slots} }

// Clear builds a clear command.
func Clear() Command { return Command{Op: OpClear} }

// Load builds a command replacing the selection with the expansion of blocks.
func Load(blocks []slot.Block) Command { return Command{Op: OpLoad, Blocks: blocks} }

// Reduce applies cmd to s and returns the new selection.
func Reduce(s Selection, cmd Command) (Selection, error) {
	switch cmd.Op {
	case OpToggle:
		if len(cmd.Slots) == 0 {
			return s, nil
		}
		return s.Toggle(cmd.Slots[0]), nil
	case OpAddRange:
		return s.AddRange(cmd.Slots), nil
	case OpRemoveRange:
		return s.RemoveRange(cmd.Slots), nil
	case OpClear:
		return s.Clear(), nil
	case OpLoad:
		return FromBlocks(cmd.Blocks), nil
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownOp, cmd.Op)
	}
}

// historyEntry is the selection as it was before a command.
type historyEntry struct {
	Op        Op
	Selection Selection
}

// Store is the editing session's state container. It owns the current
// selection, the one it was loaded from, and an undo history of snapshots.
// A Store is not safe for concurrent use; the editors drive it from a single
// event loop.
type Store struct {
	current    Selection
	saved      Selection
	history    []historyEntry
	maxHistory int

	// grouping folds every command between BeginGroup and EndGroup into
	// one undo entry.
	grouping bool
	grouped  bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{maxHistory: defaultMaxHistory}
}

// Selection returns the current selection.
func (st *Store) Selection() Selection {
	return st.current
}

// Dispatch applies cmd, recording the previous state for undo.
func (st *Store) Dispatch(cmd Command) error {
	next, err := Reduce(st.current, cmd)
	if err != nil {
		return err
	}
	st.pushHistory(cmd.Op)
	st.current = next
	return nil
}

// Load replaces the selection with blocks and forgets history. The loaded
// state becomes the baseline for HasChanges.
func (st *Store) Load(blocks []slot.Block) {
	st.current = FromBlocks(blocks)
	st.saved = st.current
	st.history = nil
}

// MarkSaved makes the current selection the baseline for HasChanges.
func (st *Store) MarkSaved() {
	st.saved = st.current
	st.history = nil
}

// HasChanges reports whether the selection differs from the loaded one.
func (st *Store) HasChanges() bool {
	return !st.current.Equal(st.saved)
}

// CanUndo returns true if there are operations to undo.
func (st *Store) CanUndo() bool {
	return len(st.history) > 0
}

// UndoCount returns the number of operations that can be undone.
func (st *Store) UndoCount() int {
	return len(st.history)
}

// Undo reverts the last command.
func (st *Store) Undo() error {
	if len(st.history) == 0 {
		return ErrNothingToUndo
	}
	entry := st.history[len(st.history)-1]
	st.history = st.history[:len(st.history)-1]
	st.current = entry.Selection
	return nil
}

// BeginGroup starts collapsing commands into a single undo step, so a
// whole drag undoes at once.
func (st *Store) BeginGroup() {
	st.grouping = true
	st.grouped = false
}

// EndGroup closes the group opened by BeginGroup.
func (st *Store) EndGroup() {
	st.grouping = false
	st.grouped = false
}

func (st *Store) pushHistory(op Op) {
	if st.grouping {
		if st.grouped {
			return
		}
		st.grouped = true
	}
	if len(st.history) >= st.maxHistory {
		st.history = st.history[1:]
	}
	st.history = append(st.history, historyEntry{Op: op, Selection: st.current})
}

// IsSelected reports whether sl is in the current selection.
func (st *Store) IsSelected(sl slot.Slot) bool {
	return st.current.IsSelected(sl)
}

// Toggle flips sl. Together with IsSelected it lets the gesture machines
// drive the store directly.
func (st *Store) Toggle(sl slot.Slot) {
	_ = st.Dispatch(Toggle(sl))
}

// Blocks returns the current selection merged into blocks.
func (st *Store) Blocks() []slot.Block {
	return st.current.Blocks()
}
