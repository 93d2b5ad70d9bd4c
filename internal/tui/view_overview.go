package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Starpact/tlc/internal/session"
)

func (m model) renderOverview(t theme, layout uiLayout) string {
	cfg := m.session.Store.Current()

	if !m.session.Store.Loaded() {
		return t.panelSubtle.Render("waiting for the engine...")
	}

	colWidth := maxInt(14, (layout.Width-12)/3)
	colStyle := lipgloss.NewStyle().Width(colWidth)

	framesCard := colStyle.Render(strings.Join([]string{
		t.cardLabel.Render("Video"),
		t.cardValue.Render(fmt.Sprintf("%d frames", cfg.TotalFrames)),
		t.panelSubtle.Render(fmt.Sprintf("%d fps  start %d", cfg.FrameRate, cfg.StartFrame)),
	}, "\n"))
	rowsCard := colStyle.Render(strings.Join([]string{
		t.cardLabel.Render("DAQ"),
		t.cardValue.Render(fmt.Sprintf("%d rows", cfg.TotalRows)),
		t.panelSubtle.Render(fmt.Sprintf("start %d", cfg.StartRow)),
	}, "\n"))
	scopeCard := colStyle.Render(strings.Join([]string{
		t.cardLabel.Render("Scope"),
		t.cardValue.Render(fmt.Sprintf("%d frames", cfg.FrameNum)),
		t.panelSubtle.Render(fallbackText(session.FrameRangeLabel(cfg), "not synchronized")),
	}, "\n"))

	lines := []string{
		t.panelTitle.Render("Case Overview"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, framesCard, " ", rowsCard, " ", scopeCard),
		"",
		t.panelSubtle.Render("Sources"),
		"video  " + t.panelAccent.Render(fallbackText(cfg.VideoPath, "unset")),
		"daq    " + t.panelAccent.Render(fallbackText(cfg.DaqPath, "unset")),
		"save   " + t.panelAccent.Render(fallbackText(cfg.SaveDir, "unset")),
	}

	if cfg.TopLeftPos != nil && cfg.RegionShape != nil {
		lines = append(lines, "",
			t.panelSubtle.Render("Region"),
			fmt.Sprintf("top left (%d,%d)  shape %dx%d",
				cfg.TopLeftPos[0], cfg.TopLeftPos[1], cfg.RegionShape[0], cfg.RegionShape[1]))
	}

	if frameLabel := session.FrameRangeLabel(cfg); frameLabel != "" {
		lines = append(lines, "",
			t.panelSubtle.Render("In scope"),
			"frames "+frameLabel,
			"rows   "+session.RowRangeLabel(cfg))
	}

	if m.session.Store.Dirty() {
		lines = append(lines, "", t.panelWarn.Render("unsaved changes"))
	}
	lines = append(lines, "", t.panelSubtle.Render("2 setup  3 frames  4 daq  5 activity"))
	return strings.Join(lines, "\n")
}
