package selection

import (
	"errors"
	"slices"
	"testing"

	"github.com/javiermolinar/awase/internal/slot"
)

var (
	s1000 = slot.Slot{Date: "2025-11-05", Time: "10:00"}
	s1030 = slot.Slot{Date: "2025-11-05", Time: "10:30"}
	s1100 = slot.Slot{Date: "2025-11-05", Time: "11:00"}
	s0900 = slot.Slot{Date: "2025-11-06", Time: "09:00"}
)

func TestSelection_ZeroValue(t *testing.T) {
	var s Selection
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.IsSelected(s1000) {
		t.Error("zero selection should not contain anything")
	}
	if got := s.Blocks(); len(got) != 0 {
		t.Errorf("Blocks() = %v, want empty", got)
	}
}

func TestSelection_ToggleIdempotence(t *testing.T) {
	orig := New(s1000, s0900)

	once := orig.Toggle(s1030)
	if !once.IsSelected(s1030) {
		t.Fatal("toggle should add an absent slot")
	}
	twice := once.Toggle(s1030)
	if !twice.Equal(orig) {
		t.Errorf("toggle twice = %v, want %v", twice.Slots(), orig.Slots())
	}

	removed := orig.Toggle(s1000)
	if removed.IsSelected(s1000) {
		t.Error("toggle should remove a present slot")
	}
	if !removed.Toggle(s1000).Equal(orig) {
		t.Error("toggle twice on a present slot should restore it")
	}
}

func TestSelection_Immutable(t *testing.T) {
	orig := New(s1000)
	_ = orig.Toggle(s1030)
	_ = orig.AddRange([]slot.Slot{s1100})
	_ = orig.RemoveRange([]slot.Slot{s1000})
	_ = orig.Clear()

	if orig.Len() != 1 || !orig.IsSelected(s1000) {
		t.Errorf("receiver mutated: %v", orig.Slots())
	}
}

func TestSelection_AddRange(t *testing.T) {
	s := New(s1000).AddRange([]slot.Slot{s1000, s1030, s1030, s1100})
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	for _, sl := range []slot.Slot{s1000, s1030, s1100} {
		if !s.IsSelected(sl) {
			t.Errorf("%s not selected", sl)
		}
	}
}

func TestSelection_RemoveRange(t *testing.T) {
	s := New(s1000, s1030, s1100).RemoveRange([]slot.Slot{s1030, s0900})
	want := []slot.Slot{s1000, s1100}
	if got := s.Slots(); !slices.Equal(got, want) {
		t.Errorf("Slots() = %v, want %v", got, want)
	}
}

func TestSelection_Clear(t *testing.T) {
	s := New(s1000, s1030).Clear()
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestSelection_Blocks(t *testing.T) {
	s := New(s0900, s1100, s1000, s1030)
	want := []slot.Block{
		{Date: "2025-11-05", Start: "10:00", End: "11:30"},
		{Date: "2025-11-06", Start: "09:00", End: "09:30"},
	}
	if got := s.Blocks(); !slices.Equal(got, want) {
		t.Errorf("Blocks() = %v, want %v", got, want)
	}
}

func TestFromBlocks(t *testing.T) {
	blocks := []slot.Block{
		{Date: "2025-11-05", Start: "10:00", End: "11:30"},
		{Date: "2025-11-06", Start: "09:00", End: "09:30"},
	}
	s := FromBlocks(blocks)
	if s.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", s.Len())
	}
	if got := s.Blocks(); !slices.Equal(got, blocks) {
		t.Errorf("round trip = %v, want %v", got, blocks)
	}
}

func TestReduce(t *testing.T) {
	base := New(s1000)

	tests := []struct {
		name string
		cmd  Command
		want []slot.Slot
	}{
		{name: "toggle add", cmd: Toggle(s1030), want: []slot.Slot{s1000, s1030}},
		{name: "toggle remove", cmd: Toggle(s1000), want: []slot.Slot{}},
		{name: "toggle without slot", cmd: Command{Op: OpToggle}, want: []slot.Slot{s1000}},
		{name: "add range", cmd: AddRange(s1030, s1100), want: []slot.Slot{s1000, s1030, s1100}},
		{name: "remove range", cmd: RemoveRange(s1000, s0900), want: []slot.Slot{}},
		{name: "clear", cmd: Clear(), want: []slot.Slot{}},
		{
			name: "load replaces",
			cmd:  Load([]slot.Block{{Date: "2025-11-06", Start: "09:00", End: "09:30"}}),
			want: []slot.Slot{s0900},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reduce(base, tt.cmd)
			if err != nil {
				t.Fatalf("Reduce: %v", err)
			}
			if !slices.Equal(got.Slots(), tt.want) {
				t.Errorf("Reduce() = %v, want %v", got.Slots(), tt.want)
			}
		})
	}
}

func TestReduce_UnknownOp(t *testing.T) {
	base := New(s1000)
	got, err := Reduce(base, Command{Op: Op(99)})
	if !errors.Is(err, ErrUnknownOp) {
		t.Errorf("err = %v, want ErrUnknownOp", err)
	}
	if !got.Equal(base) {
		t.Error("unknown op should return the input unchanged")
	}
}
