package selection

import (
	"errors"
	"slices"
	"testing"

	"github.com/javiermolinar/awase/internal/slot"
)

func TestStore_NewAndBasics(t *testing.T) {
	st := NewStore()

	if st.Selection().Len() != 0 {
		t.Error("new store should be empty")
	}
	if st.HasChanges() {
		t.Error("new store should have no changes")
	}
	if st.CanUndo() {
		t.Error("new store should have nothing to undo")
	}
	if err := st.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() = %v, want ErrNothingToUndo", err)
	}
}

func TestStore_DispatchAndUndo(t *testing.T) {
	st := NewStore()

	if err := st.Dispatch(Toggle(s1000)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if err := st.Dispatch(AddRange(s1030, s1100)); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if st.Selection().Len() != 3 {
		t.Fatalf("Len() = %d, want 3", st.Selection().Len())
	}
	if st.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", st.UndoCount())
	}

	if err := st.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := st.Selection().Slots(); !slices.Equal(got, []slot.Slot{s1000}) {
		t.Errorf("after undo = %v, want [%s]", got, s1000)
	}

	if err := st.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if st.Selection().Len() != 0 {
		t.Error("second undo should restore the empty selection")
	}
	if st.HasChanges() {
		t.Error("undoing everything should clear HasChanges")
	}
}

func TestStore_DispatchUnknownOpLeavesHistory(t *testing.T) {
	st := NewStore()
	if err := st.Dispatch(Command{Op: Op(42)}); !errors.Is(err, ErrUnknownOp) {
		t.Errorf("Dispatch() = %v, want ErrUnknownOp", err)
	}
	if st.CanUndo() {
		t.Error("failed command should not be recorded")
	}
}

func TestStore_HistoryLimit(t *testing.T) {
	st := NewStore()
	var toggled []slot.Slot
	for _, date := range []string{"2025-11-05", "2025-11-06"} {
		for _, tm := range slot.GenerateTimes("00:00", "24:00") {
			toggled = append(toggled, slot.Slot{Date: date, Time: tm})
		}
	}
	for _, sl := range toggled {
		st.Toggle(sl)
	}
	if st.UndoCount() != defaultMaxHistory {
		t.Fatalf("UndoCount() = %d after %d toggles, want %d", st.UndoCount(), len(toggled), defaultMaxHistory)
	}

	for i := range defaultMaxHistory {
		if err := st.Undo(); err != nil {
			t.Fatalf("Undo #%d: %v", i+1, err)
		}
	}
	if err := st.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo past the limit = %v, want ErrNothingToUndo", err)
	}

	want := New(toggled[:len(toggled)-defaultMaxHistory]...)
	if !st.Selection().Equal(want) {
		t.Errorf("after undoing the history got %d slots, want the %d oldest toggles kept", st.Selection().Len(), want.Len())
	}
}

func TestStore_LoadResetsBaseline(t *testing.T) {
	st := NewStore()
	st.Toggle(s0900)

	blocks := []slot.Block{{Date: "2025-11-05", Start: "10:00", End: "11:00"}}
	st.Load(blocks)

	if st.CanUndo() {
		t.Error("Load should clear history")
	}
	if st.HasChanges() {
		t.Error("Load should become the HasChanges baseline")
	}
	if !st.IsSelected(s1000) || !st.IsSelected(s1030) || st.IsSelected(s0900) {
		t.Errorf("selection = %v after load", st.Selection().Slots())
	}

	st.Toggle(s1100)
	if !st.HasChanges() {
		t.Error("edit after load should be a change")
	}
	st.Toggle(s1100)
	if st.HasChanges() {
		t.Error("reverting the edit should clear HasChanges")
	}
	if got := st.Blocks(); !slices.Equal(got, blocks) {
		t.Errorf("Blocks() = %v, want %v", got, blocks)
	}
}

func TestStore_MarkSaved(t *testing.T) {
	st := NewStore()
	st.Toggle(s1000)
	st.MarkSaved()
	if st.HasChanges() || st.CanUndo() {
		t.Error("MarkSaved should reset changes and history")
	}
}

func TestStore_Group(t *testing.T) {
	st := NewStore()
	st.Toggle(s0900)

	st.BeginGroup()
	st.Toggle(s1000)
	st.Toggle(s1030)
	st.Toggle(s1100)
	st.EndGroup()

	if st.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", st.UndoCount())
	}
	if err := st.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := st.Selection().Slots(); !slices.Equal(got, []slot.Slot{s0900}) {
		t.Errorf("after undoing group = %v, want [%s]", got, s0900)
	}
}
