package tui

type uiLayout struct {
	Width  int
	Height int

	HeaderHeight int
	FooterHeight int
	BodyHeight   int

	// Frames view splits the body into the viewer pane and a status column.
	ViewerWidth int
	SideWidth   int
}

func computeLayout(width, height int) uiLayout {
	if width < 40 {
		width = 40
	}
	if height < 16 {
		height = 16
	}

	layout := uiLayout{
		Width:        width,
		Height:       height,
		HeaderHeight: 3,
		FooterHeight: 4,
	}
	layout.BodyHeight = maxInt(6, height-layout.HeaderHeight-layout.FooterHeight)
	layout.SideWidth = clampInt(width*28/100, 24, 44)
	layout.ViewerWidth = maxInt(30, width-layout.SideWidth-1)
	return layout
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
