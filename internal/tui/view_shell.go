package tui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

func (m model) renderView() string {
	if m.quitting {
		return "tlc tui closed\n"
	}

	t := newTheme()
	layout := computeLayout(m.width, m.height)

	header := m.renderHeader(t, layout)
	body := m.renderBody(t, layout)
	footer := m.renderFooter(t, layout)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return t.appBG.Width(layout.Width).Height(layout.Height).Render(ui)
}

func (m model) renderHeader(t theme, layout uiLayout) string {
	cfg := m.session.Store.Current()

	statusChip := t.chipOK.Render("READY")
	if m.session.Alert.Active() {
		statusChip = t.chipError.Render("ERROR")
	} else if m.loading {
		statusChip = t.chipWarn.Render(m.spinner.View() + " BUSY")
	}

	style := sizedStyle(t.headerBox, layout.Width, layout.HeaderHeight)
	contentWidth := innerWidth(t.headerBox, layout.Width)

	caseName := cfg.CaseName
	if caseName == "" {
		caseName = "no case"
	}
	line1 := fillLine(t.brand.Render("TLC Operator Console"), statusChip, contentWidth)
	line2 := fillLine(
		t.headerSub.Render(trimToWidth("case: "+caseName+" | "+m.renderNav(t), maxInt(20, contentWidth*2/3))),
		t.headerSub.Render(trimToWidth("engine: "+m.cfg.EngineURL, maxInt(16, contentWidth/3))),
		contentWidth,
	)
	return style.Render(line1 + "\n" + line2)
}

func (m model) renderNav(t theme) string {
	items := make([]string, 0, len(allViews()))
	for i, view := range allViews() {
		label := fmt.Sprintf("%d:%s", i+1, string(view))
		if view == m.activeView {
			label = t.navActive.Render(label)
		} else {
			label = t.navItem.Render(label)
		}
		items = append(items, label)
	}
	return strings.Join(items, " ")
}

func (m model) renderBody(t theme, layout uiLayout) string {
	var content string
	switch m.activeView {
	case viewSetup:
		content = m.renderSetup(t, layout)
	case viewFrames:
		content = m.renderFrames(t, layout)
	case viewDAQ:
		content = m.renderDaq(t, layout)
	case viewActivity:
		content = m.renderActivity(t, layout)
	default:
		content = m.renderOverview(t, layout)
	}
	return sizedStyle(t.panelBox, layout.Width, layout.BodyHeight).Render(content)
}

func (m model) renderFooter(t theme, layout uiLayout) string {
	style := t.footerBox
	contentWidth := innerWidth(style, layout.Width)

	statusLine := t.footerOK.Render("status: " + fallbackText(m.statusText, "idle"))
	if alert := m.session.Alert.Message(); alert != "" {
		statusLine = t.footerErr.Render(trimToWidth("error: "+alert+"  (esc to dismiss)", contentWidth))
	}

	var inputLine string
	if m.inputTarget != inputNone {
		inputLine = "\n" + t.footerInfo.Render(trimToWidth("> "+m.input.View(), contentWidth))
	}

	helpLine := t.footerInfo.Render(m.help.View(m.keys))
	return sizedStyle(style, layout.Width, layout.FooterHeight).Render(helpLine + "\n" + statusLine + inputLine)
}

func fillLine(left, right string, width int) string {
	if width <= 0 {
		return strings.TrimSpace(left + " " + right)
	}
	lw := lipgloss.Width(left)
	rw := lipgloss.Width(right)
	if lw+rw+1 > width {
		return trimToWidth(left+" "+right, width)
	}
	return left + strings.Repeat(" ", width-lw-rw) + right
}

func trimToWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= width {
		return string(runes)
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func sizedStyle(style lipgloss.Style, width, height int) lipgloss.Style {
	contentWidth := maxInt(1, width-style.GetHorizontalFrameSize())
	contentHeight := maxInt(1, height-style.GetVerticalFrameSize())
	return style.Width(contentWidth).Height(contentHeight)
}

func innerWidth(style lipgloss.Style, width int) int {
	return maxInt(1, width-style.GetHorizontalFrameSize())
}

func fallbackText(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
