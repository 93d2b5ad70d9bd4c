package tui

import (
	"fmt"
	"strings"
)

func (m model) renderSetup(t theme, layout uiLayout) string {
	cfg := m.session.Store.Current()

	row := func(label, value, hint string) string {
		return fmt.Sprintf("%-12s %s  %s",
			t.cardLabel.Render(label),
			t.panelAccent.Render(fallbackText(value, "unset")),
			t.panelSubtle.Render(hint))
	}

	lines := []string{
		t.panelTitle.Render("Case Setup"),
		"",
		row("video", trimToWidth(cfg.VideoPath, layout.Width/2), "[v] pick"),
		row("daq", trimToWidth(cfg.DaqPath, layout.Width/2), "[d] pick"),
		row("save dir", trimToWidth(cfg.SaveDir, layout.Width/2), "[w] pick"),
		"",
		row("start frame", fmt.Sprintf("%d", cfg.StartFrame), "[f] edit"),
		row("start row", fmt.Sprintf("%d", cfg.StartRow), "[r] edit"),
		row("region", regionText(cfg.TopLeftPos, cfg.RegionShape), "[e] edit y,x,height,width"),
		"",
		t.panelSubtle.Render("[o] open case   [n] new case   [ctrl+s] save case   [ctrl+r] start solve"),
	}

	if cfg.FrameNum > 0 {
		lines = append(lines, "", t.panelSubtle.Render(fmt.Sprintf("%d frame/row pairs in scope", cfg.FrameNum)))
	} else if cfg.VideoPath != "" || cfg.DaqPath != "" {
		lines = append(lines, "", t.panelWarn.Render("scope empty, set both sources and synchronize"))
	}

	if len(cfg.Thermocouples) > 0 {
		lines = append(lines, "", t.panelSubtle.Render("Thermocouples"))
		for _, tc := range cfg.Thermocouples {
			lines = append(lines, fmt.Sprintf("col %-3d at (%d,%d)", tc.ColumnIndex, tc.Pos[0], tc.Pos[1]))
		}
	}
	return strings.Join(lines, "\n")
}

func regionText(topLeft, shape *[2]int) string {
	if topLeft == nil || shape == nil {
		return ""
	}
	return fmt.Sprintf("(%d,%d) %dx%d", topLeft[0], topLeft[1], shape[0], shape[1])
}
