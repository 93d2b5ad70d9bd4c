package daqview

import (
	"testing"

	"github.com/Starpact/tlc/internal/engine"
)

func testDAQ(rows, cols int) engine.DAQ {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i)
	}
	return engine.DAQ{Dim: [2]int{rows, cols}, Data: data}
}

func TestHighlightLaw(t *testing.T) {
	v := New(testDAQ(10, 10))
	v.Resize(5, 5)
	v.Select(3, 4)

	if got := v.HighlightAt(3, 4); got != HighlightSelected {
		t.Fatalf("cell on both axes = %v, want selected", got)
	}
	if got := v.HighlightAt(3, 7); got != HighlightCrosshair {
		t.Fatalf("cell on selected row = %v, want crosshair", got)
	}
	if got := v.HighlightAt(8, 4); got != HighlightCrosshair {
		t.Fatalf("cell on selected column = %v, want crosshair", got)
	}
	if got := v.HighlightAt(8, 7); got != HighlightNone {
		t.Fatalf("cell off both axes = %v, want none", got)
	}
}

func TestNoSelectionHighlightsNothing(t *testing.T) {
	v := New(testDAQ(4, 4))
	v.Resize(4, 4)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if got := v.HighlightAt(r, c); got != HighlightNone {
				t.Fatalf("cell (%d,%d) = %v without a selection, want none", r, c, got)
			}
		}
	}
}

func TestVisibleSpanIsBoundedByWindow(t *testing.T) {
	v := New(testDAQ(100000, 2000))
	v.Resize(20, 8)
	v.Scroll(500, 100)

	fromRow, toRow := v.VisibleRows()
	fromCol, toCol := v.VisibleCols()
	if toRow-fromRow != 20 {
		t.Fatalf("visible rows span %d, want window height 20", toRow-fromRow)
	}
	if toCol-fromCol != 8 {
		t.Fatalf("visible cols span %d, want window width 8", toCol-fromCol)
	}
	if fromRow != 500 || fromCol != 100 {
		t.Fatalf("window origin = (%d,%d), want (500,100)", fromRow, fromCol)
	}
}

func TestSelectionScrollsIntoView(t *testing.T) {
	v := New(testDAQ(1000, 50))
	v.Resize(10, 10)

	v.Select(42, 25)
	fromRow, toRow := v.VisibleRows()
	fromCol, toCol := v.VisibleCols()
	if 42 < fromRow || 42 >= toRow {
		t.Fatalf("selected row 42 not within visible [%d,%d)", fromRow, toRow)
	}
	if 25 < fromCol || 25 >= toCol {
		t.Fatalf("selected col 25 not within visible [%d,%d)", fromCol, toCol)
	}
}

func TestMoveSelectionClampsAtEdges(t *testing.T) {
	v := New(testDAQ(5, 5))
	v.Resize(5, 5)

	v.MoveSelection(0, 0)
	if r, c := v.Selection(); r != 0 || c != 0 {
		t.Fatalf("first move = (%d,%d), want origin", r, c)
	}
	v.MoveSelection(-3, -3)
	if r, c := v.Selection(); r != 0 || c != 0 {
		t.Fatalf("selection = (%d,%d) after moving past the top left, want (0,0)", r, c)
	}
	v.MoveSelection(100, 100)
	if r, c := v.Selection(); r != 4 || c != 4 {
		t.Fatalf("selection = (%d,%d) after moving past the bottom right, want (4,4)", r, c)
	}
}

func TestScrollClampsToMatrix(t *testing.T) {
	v := New(testDAQ(30, 30))
	v.Resize(10, 10)

	v.Scroll(-5, -5)
	if from, _ := v.VisibleRows(); from != 0 {
		t.Fatalf("top = %d after scrolling above, want 0", from)
	}
	v.Scroll(1000, 1000)
	fromRow, toRow := v.VisibleRows()
	if toRow != 30 || fromRow != 20 {
		t.Fatalf("rows [%d,%d) after scrolling past the end, want [20,30)", fromRow, toRow)
	}
}

func TestCellTextFixedDecimals(t *testing.T) {
	v := New(engine.DAQ{Dim: [2]int{1, 2}, Data: []float64{3.14159, 25}})
	if got := v.CellText(0, 0); got != "3.14" {
		t.Fatalf("cell = %q, want %q", got, "3.14")
	}
	if got := v.CellText(0, 1); got != "25.00" {
		t.Fatalf("cell = %q, want %q", got, "25.00")
	}
}
