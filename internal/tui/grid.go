package tui

import (
	"slices"

	"github.com/javiermolinar/awase/internal/slot"
)

// Layout constants, in terminal cells.
const (
	timeColWidth = 6 // "10:00 "
	cellWidth    = 6 // rendered cell, without the gap
	colGap       = 1
	colWidth     = cellWidth + colGap

	headerLines = 3 // title, name field, date header
	footerLines = 2 // status, help
)

// Position is a cursor position in grid coordinates.
type Position struct {
	Col int // date index
	Row int // time index
}

// Grid maps candidate ranges onto a date-by-time table and screen cells
// back onto slots. Columns are the sorted candidate dates; rows are the
// union of slot times across all ranges. Cells outside a date's ranges
// are inert.
type Grid struct {
	Dates []string
	Times []string

	ranges map[string][]slot.CandidateRange

	// Viewport, in grid coordinates.
	Top, Left  int
	Rows, Cols int
}

// NewGrid builds a grid over ranges.
func NewGrid(ranges []slot.CandidateRange) *Grid {
	g := &Grid{ranges: make(map[string][]slot.CandidateRange)}

	times := make(map[string]bool)
	for _, r := range ranges {
		if _, ok := g.ranges[r.Date]; !ok {
			g.Dates = append(g.Dates, r.Date)
		}
		g.ranges[r.Date] = append(g.ranges[r.Date], r)
		for _, t := range r.Times() {
			times[t] = true
		}
	}
	slices.SortFunc(g.Dates, slot.CompareDates)
	for t := range times {
		g.Times = append(g.Times, t)
	}
	slices.SortFunc(g.Times, slot.CompareTimes)

	g.Rows, g.Cols = len(g.Times), len(g.Dates)
	return g
}

// Slot returns the slot at p, and whether p is inside the table.
func (g *Grid) Slot(p Position) (slot.Slot, bool) {
	if p.Col < 0 || p.Col >= len(g.Dates) || p.Row < 0 || p.Row >= len(g.Times) {
		return slot.Slot{}, false
	}
	return slot.Slot{Date: g.Dates[p.Col], Time: g.Times[p.Row]}, true
}

// Active reports whether s lies inside one of its date's candidate ranges.
func (g *Grid) Active(s slot.Slot) bool {
	for _, r := range g.ranges[s.Date] {
		if r.Contains(s) {
			return true
		}
	}
	return false
}

// Resize fits the viewport to a terminal of the given size.
func (g *Grid) Resize(width, height int) {
	g.Rows = max(height-headerLines-footerLines, 1)
	g.Cols = max((width-timeColWidth)/colWidth, 1)
	g.clamp()
}

// ScrollBy moves the viewport down by rows (up when negative).
func (g *Grid) ScrollBy(rows int) {
	g.Top += rows
	g.clamp()
}

// EnsureVisible scrolls so p is inside the viewport.
func (g *Grid) EnsureVisible(p Position) {
	if p.Row < g.Top {
		g.Top = p.Row
	} else if p.Row >= g.Top+g.Rows {
		g.Top = p.Row - g.Rows + 1
	}
	if p.Col < g.Left {
		g.Left = p.Col
	} else if p.Col >= g.Left+g.Cols {
		g.Left = p.Col - g.Cols + 1
	}
	g.clamp()
}

func (g *Grid) clamp() {
	g.Top = min(max(g.Top, 0), max(len(g.Times)-g.Rows, 0))
	g.Left = min(max(g.Left, 0), max(len(g.Dates)-g.Cols, 0))
}

// VisibleRows returns the row indices in the viewport.
func (g *Grid) VisibleRows() (from, to int) {
	return g.Top, min(g.Top+g.Rows, len(g.Times))
}

// VisibleCols returns the column indices in the viewport.
func (g *Grid) VisibleCols() (from, to int) {
	return g.Left, min(g.Left+g.Cols, len(g.Dates))
}

// HitTest maps a screen cell to a grid position. Gaps between columns,
// labels and headers miss.
func (g *Grid) HitTest(x, y int) (Position, bool) {
	if x < timeColWidth || y < headerLines {
		return Position{}, false
	}
	dx := x - timeColWidth
	if dx%colWidth >= cellWidth {
		return Position{}, false
	}
	p := Position{Col: g.Left + dx/colWidth, Row: g.Top + y - headerLines}
	colFrom, colTo := g.VisibleCols()
	rowFrom, rowTo := g.VisibleRows()
	if p.Col < colFrom || p.Col >= colTo || p.Row < rowFrom || p.Row >= rowTo {
		return Position{}, false
	}
	return p, true
}

// SlotAt maps a screen cell to an active slot.
func (g *Grid) SlotAt(x, y int) (slot.Slot, bool) {
	p, ok := g.HitTest(x, y)
	if !ok {
		return slot.Slot{}, false
	}
	s, ok := g.Slot(p)
	if !ok || !g.Active(s) {
		return slot.Slot{}, false
	}
	return s, true
}

// Locate returns the grid position of s.
func (g *Grid) Locate(s slot.Slot) (Position, bool) {
	col := slices.Index(g.Dates, s.Date)
	row := slices.Index(g.Times, s.Time)
	if col < 0 || row < 0 {
		return Position{}, false
	}
	return Position{Col: col, Row: row}, true
}
