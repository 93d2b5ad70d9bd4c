package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Starpact/tlc/internal/raster"
	"github.com/Starpact/tlc/internal/session"
)

func (m model) renderFrames(t theme, layout uiLayout) string {
	cfg := m.session.Store.Current()
	if cfg.TotalFrames == 0 {
		return t.panelSubtle.Render("no video loaded, pick one in setup [2]")
	}

	viewerHeight := maxInt(4, layout.BodyHeight-3)
	viewer := t.panelSubtle.Render("fetching frame...")
	frame, ok := m.session.Frames.Current()
	if ok {
		viewer = raster.Render(frame, maxInt(10, layout.ViewerWidth-4), viewerHeight)
	}

	side := m.renderFramesSide(t, layout)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(layout.ViewerWidth).Render(viewer),
		side,
	)

	scrub := m.renderScrubber(t, layout, cfg.TotalFrames)
	return strings.Join([]string{body, scrub}, "\n")
}

func (m model) renderFramesSide(t theme, layout uiLayout) string {
	cfg := m.session.Store.Current()

	displayed := "none"
	if frame, ok := m.session.Frames.Current(); ok {
		displayed = fmt.Sprintf("%d (%dx%d)", frame.Index, frame.Width, frame.Height)
	}
	wanted := m.session.Frames.Desired()

	lines := []string{
		t.panelTitle.Render("Frame Viewer"),
		"",
		"displayed  " + t.panelAccent.Render(displayed),
		"wanted     " + t.panelAccent.Render(fmt.Sprintf("%d", wanted)),
		"",
		t.panelSubtle.Render(fallbackText(session.FrameRangeLabel(cfg), "scope not set")),
		"",
		t.panelSubtle.Render("h/l step  H/L x10"),
		t.panelSubtle.Render("g jump  s synchronize"),
	}
	if wanted >= 0 {
		if frame, ok := m.session.Frames.Current(); !ok || frame.Index != wanted {
			lines = append(lines, "", t.panelWarn.Render(m.spinner.View()+" loading"))
		}
	}
	return lipgloss.NewStyle().Width(layout.SideWidth).Render(strings.Join(lines, "\n"))
}

// renderScrubber draws the timeline with the wanted position marked.
func (m model) renderScrubber(t theme, layout uiLayout, totalFrames int) string {
	width := maxInt(10, layout.Width-12)
	index := m.session.Frames.Desired()
	if index < 0 {
		index = 0
	}

	pos := 0
	if totalFrames > 1 {
		pos = index * (width - 1) / (totalFrames - 1)
	}
	bar := strings.Repeat("─", pos) + "●" + strings.Repeat("─", maxInt(0, width-pos-1))
	return t.panelSubtle.Render(fmt.Sprintf("%6d ", index)) + t.panelAccent.Render(bar)
}
