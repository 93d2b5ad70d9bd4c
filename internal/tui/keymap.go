package tui

import (
	"charm.land/bubbles/v2/key"
)

type keyMap struct {
	Quit       key.Binding
	Dismiss    key.Binding
	ToggleHelp key.Binding

	View1 key.Binding
	View2 key.Binding
	View3 key.Binding
	View4 key.Binding
	View5 key.Binding

	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Jump  key.Binding

	PickVideo   key.Binding
	PickDaq     key.Binding
	PickConfig  key.Binding
	PickSaveDir key.Binding
	NewCase     key.Binding
	SaveCase    key.Binding

	EditStartFrame key.Binding
	EditStartRow   key.Binding
	EditRegion     key.Binding
	Commit         key.Binding

	Synchronize key.Binding
	Solve       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss error"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		View1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "overview"),
		),
		View2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "setup"),
		),
		View3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "frames"),
		),
		View4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "daq"),
		),
		View5: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "activity"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/right", "move right"),
		),
		Jump: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "jump to index"),
		),
		PickVideo: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "pick video"),
		),
		PickDaq: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "pick daq"),
		),
		PickConfig: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open case"),
		),
		PickSaveDir: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "save dir"),
		),
		NewCase: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new case"),
		),
		SaveCase: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save case"),
		),
		EditStartFrame: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "start frame"),
		),
		EditStartRow: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start row"),
		),
		EditRegion: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "region"),
		),
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "commit"),
		),
		Synchronize: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "synchronize"),
		),
		Solve: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "start solve"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.View1,
		k.View2,
		k.View3,
		k.View4,
		k.View5,
		k.Dismiss,
		k.ToggleHelp,
		k.Quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.View1, k.View2, k.View3, k.View4, k.View5, k.Quit},
		{k.Up, k.Down, k.Left, k.Right, k.Jump},
		{k.PickVideo, k.PickDaq, k.PickConfig, k.PickSaveDir, k.NewCase, k.SaveCase},
		{k.EditStartFrame, k.EditStartRow, k.EditRegion, k.Commit, k.Synchronize, k.Solve},
	}
}
