// Package daqview renders a window onto the DAQ matrix. The matrix can be
// arbitrarily large, so every operation here is bounded by the visible window,
// never by the matrix dimensions.
package daqview

import (
	"strconv"

	"github.com/Starpact/tlc/internal/engine"
)

// Highlight classifies a visible cell against the current selection.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightCrosshair
	HighlightSelected
)

// View is a movable window over a DAQ matrix plus a single selected cell.
// Row -1 / Col -1 means no selection on that axis and highlights nothing.
type View struct {
	daq engine.DAQ

	top, left      int
	height, width  int
	selRow, selCol int
}

func New(daq engine.DAQ) *View {
	return &View{daq: daq, selRow: -1, selCol: -1}
}

// Resize sets the window extent in cells. The origin is re-clamped so the
// window never hangs past the matrix edge.
func (v *View) Resize(height, width int) {
	v.height = height
	v.width = width
	v.clamp()
}

func (v *View) Rows() int { return v.daq.Rows() }
func (v *View) Cols() int { return v.daq.Cols() }

// Selection returns the selected cell, (-1, -1) when nothing is selected.
func (v *View) Selection() (row, col int) {
	return v.selRow, v.selCol
}

// Select moves the selection and scrolls the window just enough to keep the
// selected cell visible.
func (v *View) Select(row, col int) {
	if row < 0 || row >= v.daq.Rows() || col < 0 || col >= v.daq.Cols() {
		return
	}
	v.selRow, v.selCol = row, col
	v.follow()
}

// MoveSelection steps the selection by the given deltas, clamping at the
// matrix edges. With no prior selection it starts at the origin.
func (v *View) MoveSelection(dRow, dCol int) {
	row, col := v.selRow, v.selCol
	if row < 0 || col < 0 {
		row, col = 0, 0
	} else {
		row = clampInt(row+dRow, 0, v.daq.Rows()-1)
		col = clampInt(col+dCol, 0, v.daq.Cols()-1)
	}
	v.Select(row, col)
}

func (v *View) ClearSelection() {
	v.selRow, v.selCol = -1, -1
}

// Scroll moves the window without touching the selection.
func (v *View) Scroll(dRow, dCol int) {
	v.top += dRow
	v.left += dCol
	v.clamp()
}

// VisibleRows and VisibleCols bound the row/column span the window exposes.
// Iterating [fromRow, toRow) x [fromCol, toCol) touches only visible cells.
func (v *View) VisibleRows() (from, to int) {
	return v.top, minInt(v.top+v.height, v.daq.Rows())
}

func (v *View) VisibleCols() (from, to int) {
	return v.left, minInt(v.left+v.width, v.daq.Cols())
}

// HighlightAt implements the selection law: the selected cell matches on both
// axes, the crosshair matches on exactly one. No selection highlights nothing.
func (v *View) HighlightAt(row, col int) Highlight {
	onRow := v.selRow >= 0 && row == v.selRow
	onCol := v.selCol >= 0 && col == v.selCol
	switch {
	case onRow && onCol:
		return HighlightSelected
	case onRow || onCol:
		return HighlightCrosshair
	default:
		return HighlightNone
	}
}

// CellText formats one cell value for display. Fixed two decimals keeps the
// column grid stable while scrolling.
func (v *View) CellText(row, col int) string {
	return strconv.FormatFloat(v.daq.At(row, col), 'f', 2, 64)
}

func (v *View) follow() {
	if v.selRow < v.top {
		v.top = v.selRow
	}
	if v.height > 0 && v.selRow >= v.top+v.height {
		v.top = v.selRow - v.height + 1
	}
	if v.selCol < v.left {
		v.left = v.selCol
	}
	if v.width > 0 && v.selCol >= v.left+v.width {
		v.left = v.selCol - v.width + 1
	}
	v.clamp()
}

func (v *View) clamp() {
	v.top = clampInt(v.top, 0, maxInt(0, v.daq.Rows()-v.height))
	v.left = clampInt(v.left, 0, maxInt(0, v.daq.Cols()-v.width))
}

func clampInt(x, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
