package tui

import "charm.land/lipgloss/v2"

type theme struct {
	appBG lipgloss.Style

	brand lipgloss.Style

	headerBox lipgloss.Style
	headerSub lipgloss.Style

	navItem   lipgloss.Style
	navActive lipgloss.Style

	panelBox    lipgloss.Style
	panelTitle  lipgloss.Style
	panelSubtle lipgloss.Style
	panelAccent lipgloss.Style
	panelWarn   lipgloss.Style
	panelError  lipgloss.Style

	footerBox  lipgloss.Style
	footerInfo lipgloss.Style
	footerErr  lipgloss.Style
	footerOK   lipgloss.Style

	chipInfo  lipgloss.Style
	chipWarn  lipgloss.Style
	chipError lipgloss.Style
	chipOK    lipgloss.Style

	cardValue lipgloss.Style
	cardLabel lipgloss.Style

	cellDefault   lipgloss.Style
	cellCrosshair lipgloss.Style
	cellSelected  lipgloss.Style
	tableHeader   lipgloss.Style

	spinner lipgloss.Style
}

func newTheme() theme {
	border := lipgloss.Color("238")
	text := lipgloss.Color("252")
	muted := lipgloss.Color("246")
	subtle := lipgloss.Color("243")
	accent := lipgloss.Color("111")
	success := lipgloss.Color("78")
	warn := lipgloss.Color("214")
	danger := lipgloss.Color("203")

	return theme{
		appBG: lipgloss.NewStyle().Foreground(text),
		brand: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		headerBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(border).
			Padding(0, 1),
		headerSub: lipgloss.NewStyle().Foreground(muted),

		navItem: lipgloss.NewStyle().Foreground(subtle),
		navActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Underline(true),

		panelBox: lipgloss.NewStyle().
			Padding(0, 1),
		panelTitle:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		panelSubtle: lipgloss.NewStyle().Foreground(muted),
		panelAccent: lipgloss.NewStyle().Foreground(lipgloss.Color("151")),
		panelWarn:   lipgloss.NewStyle().Foreground(warn),
		panelError:  lipgloss.NewStyle().Foreground(danger),

		footerBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(border).
			Padding(0, 1),
		footerInfo: lipgloss.NewStyle().Foreground(text),
		footerErr:  lipgloss.NewStyle().Bold(true).Foreground(danger),
		footerOK:   lipgloss.NewStyle().Bold(true).Foreground(success),

		chipInfo:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		chipWarn:  lipgloss.NewStyle().Bold(true).Foreground(warn),
		chipError: lipgloss.NewStyle().Bold(true).Foreground(danger),
		chipOK:    lipgloss.NewStyle().Bold(true).Foreground(success),

		cardValue: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		cardLabel: lipgloss.NewStyle().Foreground(muted),

		cellDefault:   lipgloss.NewStyle().Foreground(text),
		cellCrosshair: lipgloss.NewStyle().Foreground(accent),
		cellSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("232")).
			Background(accent),
		tableHeader: lipgloss.NewStyle().Bold(true).Foreground(accent),

		spinner: lipgloss.NewStyle().Bold(true).Foreground(warn),
	}
}
