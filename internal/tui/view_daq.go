package tui

import (
	"fmt"
	"strings"

	"github.com/Starpact/tlc/internal/daqview"
	"github.com/Starpact/tlc/internal/session"
)

const daqCellWidth = 9

func (m model) renderDaq(t theme, layout uiLayout) string {
	cfg := m.session.Store.Current()
	if cfg.DaqPath == "" {
		return t.panelSubtle.Render("no daq file loaded, pick one in setup [2]")
	}
	if m.daq == nil {
		return t.panelSubtle.Render(m.spinner.View() + " loading daq matrix...")
	}

	selRow, selCol := m.daq.Selection()
	header := fmt.Sprintf("%d x %d matrix", m.daq.Rows(), m.daq.Cols())
	if selRow >= 0 {
		header += fmt.Sprintf("   selected row %d col %d", selRow, selCol)
	}

	lines := []string{
		fillLine(t.panelTitle.Render("DAQ Matrix"), t.panelSubtle.Render(header), layout.Width-4),
		m.renderDaqHeader(t),
	}
	lines = append(lines, m.renderDaqRows(t)...)
	lines = append(lines, "", t.panelSubtle.Render(
		"j/k/h/l move  J/K x10  ctrl+d/ctrl+u page  s synchronize  "+
			fallbackText(session.RowRangeLabel(cfg), "")))
	return strings.Join(lines, "\n")
}

func (m model) renderDaqHeader(t theme) string {
	fromCol, toCol := m.daq.VisibleCols()
	cells := make([]string, 0, toCol-fromCol+1)
	cells = append(cells, fmt.Sprintf("%*s", daqCellWidth, "row"))
	for c := fromCol; c < toCol; c++ {
		cells = append(cells, fmt.Sprintf("%*s", daqCellWidth, fmt.Sprintf("col %d", c)))
	}
	return t.tableHeader.Render(strings.Join(cells, ""))
}

// renderDaqRows walks only the visible window; the matrix behind it may have
// hundreds of thousands of rows.
func (m model) renderDaqRows(t theme) []string {
	fromRow, toRow := m.daq.VisibleRows()
	fromCol, toCol := m.daq.VisibleCols()

	lines := make([]string, 0, toRow-fromRow)
	for r := fromRow; r < toRow; r++ {
		var b strings.Builder
		b.WriteString(t.cardLabel.Render(fmt.Sprintf("%*d", daqCellWidth, r)))
		for c := fromCol; c < toCol; c++ {
			cell := fmt.Sprintf("%*s", daqCellWidth, m.daq.CellText(r, c))
			switch m.daq.HighlightAt(r, c) {
			case daqview.HighlightSelected:
				b.WriteString(t.cellSelected.Render(cell))
			case daqview.HighlightCrosshair:
				b.WriteString(t.cellCrosshair.Render(cell))
			default:
				b.WriteString(t.cellDefault.Render(cell))
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
