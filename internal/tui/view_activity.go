package tui

import (
	"fmt"
	"strings"
)

func (m model) renderActivity(t theme, layout uiLayout) string {
	lines := []string{
		t.panelTitle.Render("Solve Activity"),
		"",
	}
	if m.jobID == "" && len(m.progress) == 0 {
		lines = append(lines, t.panelSubtle.Render("no solve started yet, ctrl+r in setup [2]"))
		return strings.Join(lines, "\n")
	}
	if m.jobID != "" {
		lines = append(lines, "job "+t.panelAccent.Render(m.jobID), "")
	}

	visible := maxInt(1, layout.BodyHeight-6)
	ticks := m.progress
	if len(ticks) > visible {
		ticks = ticks[len(ticks)-visible:]
	}
	for _, tick := range ticks {
		bar := progressBar(tick.Done, tick.Total, minInt(40, maxInt(10, layout.Width/3)))
		line := fmt.Sprintf("%-22s %s %d/%d", tick.Stage, bar, tick.Done, tick.Total)
		if tick.Stage == "done" {
			line = t.footerOK.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func progressBar(done, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := clampInt(done*width/total, 0, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
