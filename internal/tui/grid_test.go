package tui

import (
	"slices"
	"testing"

	"github.com/javiermolinar/awase/internal/slot"
)

func testRanges() []slot.CandidateRange {
	return []slot.CandidateRange{
		{Date: "2025-11-06", Start: "10:00", End: "11:00"},
		{Date: "2025-11-05", Start: "09:00", End: "10:30"},
	}
}

func TestNewGrid(t *testing.T) {
	g := NewGrid(testRanges())

	if want := []string{"2025-11-05", "2025-11-06"}; !slices.Equal(g.Dates, want) {
		t.Errorf("Dates = %v, want %v", g.Dates, want)
	}
	if want := []string{"09:00", "09:30", "10:00", "10:30"}; !slices.Equal(g.Times, want) {
		t.Errorf("Times = %v, want %v", g.Times, want)
	}
}

func TestGrid_Active(t *testing.T) {
	g := NewGrid(testRanges())

	tests := []struct {
		slot slot.Slot
		want bool
	}{
		{slot.Slot{Date: "2025-11-05", Time: "09:00"}, true},
		{slot.Slot{Date: "2025-11-05", Time: "10:00"}, true},
		{slot.Slot{Date: "2025-11-05", Time: "10:30"}, false}, // end is exclusive
		{slot.Slot{Date: "2025-11-06", Time: "09:30"}, false},
		{slot.Slot{Date: "2025-11-06", Time: "10:30"}, true},
		{slot.Slot{Date: "2025-11-07", Time: "10:00"}, false},
	}
	for _, tt := range tests {
		if got := g.Active(tt.slot); got != tt.want {
			t.Errorf("Active(%s) = %v, want %v", tt.slot, got, tt.want)
		}
	}
}

func TestGrid_HitTest(t *testing.T) {
	g := NewGrid(testRanges())
	g.Resize(80, 24)

	tests := []struct {
		name  string
		x, y  int
		want  Position
		found bool
	}{
		{"first cell", timeColWidth, headerLines, Position{Col: 0, Row: 0}, true},
		{"last char of first cell", timeColWidth + cellWidth - 1, headerLines, Position{Col: 0, Row: 0}, true},
		{"gap between columns", timeColWidth + cellWidth, headerLines, Position{}, false},
		{"second column", timeColWidth + colWidth, headerLines + 2, Position{Col: 1, Row: 2}, true},
		{"time labels", 2, headerLines, Position{}, false},
		{"header", timeColWidth, 1, Position{}, false},
		{"below last row", timeColWidth, headerLines + 4, Position{}, false},
		{"right of last column", timeColWidth + 2*colWidth, headerLines, Position{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.HitTest(tt.x, tt.y)
			if ok != tt.found || got != tt.want {
				t.Errorf("HitTest(%d, %d) = %v, %v; want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.found)
			}
		})
	}
}

func TestGrid_SlotAtSkipsInertCells(t *testing.T) {
	g := NewGrid(testRanges())
	g.Resize(80, 24)

	if _, ok := g.SlotAt(timeColWidth+colWidth, headerLines); ok {
		t.Error("2025-11-06 09:00 is outside its range and should miss")
	}
	s, ok := g.SlotAt(timeColWidth+colWidth, headerLines+2)
	if !ok || s != (slot.Slot{Date: "2025-11-06", Time: "10:00"}) {
		t.Errorf("SlotAt = %v, %v", s, ok)
	}
}

func TestGrid_Scrolling(t *testing.T) {
	ranges := []slot.CandidateRange{{Date: "2025-11-05", Start: "00:00", End: "24:00"}}
	g := NewGrid(ranges)
	g.Resize(40, headerLines+footerLines+10)

	if g.Rows != 10 {
		t.Fatalf("Rows = %d, want 10", g.Rows)
	}

	g.ScrollBy(5)
	if g.Top != 5 {
		t.Errorf("Top = %d, want 5", g.Top)
	}
	g.ScrollBy(-100)
	if g.Top != 0 {
		t.Errorf("Top = %d, want clamp to 0", g.Top)
	}
	g.ScrollBy(100)
	if g.Top != 48-10 {
		t.Errorf("Top = %d, want clamp to %d", g.Top, 48-10)
	}

	g.EnsureVisible(Position{Row: 3})
	if g.Top != 3 {
		t.Errorf("Top = %d after EnsureVisible(3), want 3", g.Top)
	}

	// After scrolling, screen row 0 of the grid is row Top.
	s, ok := g.SlotAt(timeColWidth, headerLines)
	if !ok || s.Time != "01:30" {
		t.Errorf("SlotAt top after scroll = %v, %v; want 01:30", s, ok)
	}
}

func TestGrid_Locate(t *testing.T) {
	g := NewGrid(testRanges())
	p, ok := g.Locate(slot.Slot{Date: "2025-11-06", Time: "10:30"})
	if !ok || p != (Position{Col: 1, Row: 3}) {
		t.Errorf("Locate = %v, %v", p, ok)
	}
	if _, ok := g.Locate(slot.Slot{Date: "2025-12-01", Time: "10:30"}); ok {
		t.Error("Locate should miss unknown dates")
	}
}
