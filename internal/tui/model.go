// Package tui is the operator front end: a terminal UI that drives the
// computation engine through the command channel and renders the canonical
// configuration, the frame viewer and the DAQ matrix.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Starpact/tlc/internal/autosave"
	"github.com/Starpact/tlc/internal/config"
	"github.com/Starpact/tlc/internal/daqview"
	"github.com/Starpact/tlc/internal/engine"
	"github.com/Starpact/tlc/internal/picker"
	"github.com/Starpact/tlc/internal/session"
	"github.com/Starpact/tlc/internal/watcher"
)

type viewID string

const (
	viewOverview viewID = "overview"
	viewSetup    viewID = "setup"
	viewFrames   viewID = "frames"
	viewDAQ      viewID = "daq"
	viewActivity viewID = "activity"
)

func allViews() []viewID {
	return []viewID{viewOverview, viewSetup, viewFrames, viewDAQ, viewActivity}
}

type inputTarget int

const (
	inputNone inputTarget = iota
	inputStartFrame
	inputStartRow
	inputRegion
	inputFrameJump
	inputVideoPath
	inputDaqPath
	inputConfigPath
	inputSaveDirPath
)

const progressFeedLimit = 200

type model struct {
	cfg     config.Config
	logger  *slog.Logger
	client  *engine.Client
	session *session.Session
	pick    picker.Picker
	watch   *watcher.Service

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	width    int
	height   int
	quitting bool
	loading  bool

	activeView  viewID
	inputTarget inputTarget

	daq *daqview.View

	jobID      string
	progress   []engine.Progress
	statusText string
}

// Run wires the model to its background services and blocks until the
// operator quits.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	client := engine.New(cfg, logger)
	sess := session.New(client, logger)

	var pick picker.Picker
	if cfg.PickerEnabled {
		pick = picker.Native{}
	}
	m := newModel(cfg, client, sess, pick, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(runCtx)

	var program *tea.Program
	var watch *watcher.Service
	if cfg.WatchSources {
		service, err := watcher.New(logger.With("component", "watcher"), func(_ context.Context, path string) {
			program.Send(sourceChangedMsg{path: path})
		})
		if err != nil {
			return err
		}
		watch = service
		m.watch = service
	}

	auto, err := autosave.New(sess, cfg.AutosaveCron, logger.With("component", "autosave"))
	if err != nil {
		if watch != nil {
			_ = watch.Close()
		}
		return err
	}

	program = tea.NewProgram(m)
	if watch != nil {
		group.Go(func() error { return watch.Start(groupCtx) })
	}
	if auto != nil {
		group.Go(func() error { return auto.Start(groupCtx) })
	}
	group.Go(func() error { return forwardProgress(groupCtx, client, program) })

	_, runErr := program.Run()
	cancel()
	if waitErr := group.Wait(); runErr == nil {
		runErr = waitErr
	}
	return runErr
}

// forwardProgress keeps a progress subscription alive and feeds ticks into
// the program. The engine may not be up yet, so dial failures back off and
// retry quietly.
func forwardProgress(ctx context.Context, client *engine.Client, program *tea.Program) error {
	for {
		ticks, err := client.WatchProgress(ctx)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
				continue
			}
		}
		for tick := range ticks {
			program.Send(progressMsg{progress: tick})
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Second):
		}
	}
}

func newModel(cfg config.Config, client *engine.Client, sess *session.Session, pick picker.Picker, logger *slog.Logger) model {
	t := newTheme()
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = t.spinner

	input := textinput.New()
	input.CharLimit = 64

	return model{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		session:    sess,
		pick:       pick,
		keys:       newKeyMap(),
		help:       help.New(),
		spinner:    sp,
		input:      input,
		activeView: viewOverview,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.commandCmd("loadDefaultConfig", func(ctx context.Context) error {
		return m.session.Control.LoadDefault(ctx)
	}))
}

type commandDoneMsg struct {
	command string
	err     error
}

type frameLoadedMsg struct {
	index int
	frame engine.Frame
	err   error
}

type daqLoadedMsg struct {
	daq engine.DAQ
	err error
}

type solveStartedMsg struct {
	job engine.SolveJob
	err error
}

type progressMsg struct {
	progress engine.Progress
}

type sourceChangedMsg struct {
	path string
}

type pickedMsg struct {
	target string
	path   string
	err    error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.resizeDaqView()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd

	case commandDoneMsg:
		return m.handleCommandDone(typed)

	case frameLoadedMsg:
		m.loading = false
		if typed.err != nil {
			// A superseded request's failure is as stale as its frame
			// would have been.
			if typed.index == m.session.Frames.Desired() {
				m.session.Alert.Set(typed.err.Error())
			}
			return m, nil
		}
		// Stale frames resolve out of order while scrubbing; the latch
		// keeps only the one still wanted.
		m.session.Frames.Install(typed.frame)
		return m, nil

	case daqLoadedMsg:
		m.loading = false
		if typed.err != nil {
			m.session.Alert.Set(typed.err.Error())
			return m, nil
		}
		m.daq = daqview.New(typed.daq)
		m.resizeDaqView()
		return m, nil

	case solveStartedMsg:
		m.loading = false
		if typed.err != nil {
			m.session.Alert.Set(typed.err.Error())
			return m, nil
		}
		m.jobID = typed.job.JobID
		m.statusText = "solve started: " + typed.job.JobID
		m.activeView = viewActivity
		return m, nil

	case progressMsg:
		m.progress = append(m.progress, typed.progress)
		if len(m.progress) > progressFeedLimit {
			m.progress = m.progress[len(m.progress)-progressFeedLimit:]
		}
		return m, nil

	case sourceChangedMsg:
		return m.handleSourceChanged(typed)

	case pickedMsg:
		return m.handlePicked(typed)

	case tea.KeyPressMsg:
		return m.handleKey(typed)
	}

	return m, nil
}

func (m model) View() tea.View {
	return tea.NewView(m.renderView())
}

func (m model) handleCommandDone(msg commandDoneMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		// The controller already put the message in the alert slot.
		return m, nil
	}
	m.statusText = msg.command + " ok"

	cfg := m.session.Store.Current()
	var cmds []tea.Cmd
	switch msg.command {
	case "setVideoPath", "loadConfig", "loadDefaultConfig", "newCase":
		m.session.Frames.Reset()
		m.daq = nil
		if cfg.TotalFrames > 0 {
			cmds = append(cmds, m.requestFrame(cfg.StartFrame))
		}
		if cfg.DaqPath != "" {
			cmds = append(cmds, m.loadDaqCmd())
		}
		m.refreshWatch(cfg)
	case "setDaqPath":
		cmds = append(cmds, m.loadDaqCmd())
		m.refreshWatch(cfg)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) refreshWatch(cfg engine.Config) {
	if m.watch == nil {
		return
	}
	if err := m.watch.Watch(cfg.VideoPath, cfg.DaqPath); err != nil {
		m.logger.Warn("failed to watch sources", "error", err)
	}
}

// handleSourceChanged refetches whatever a changed file invalidates.
func (m model) handleSourceChanged(msg sourceChangedMsg) (tea.Model, tea.Cmd) {
	cfg := m.session.Store.Current()
	m.statusText = "source changed on disk: " + msg.path

	switch msg.path {
	case cfg.VideoPath:
		index := m.session.Frames.Desired()
		m.session.Frames.Reset()
		if index >= 0 {
			return m, m.requestFrame(index)
		}
		return m, nil
	case cfg.DaqPath:
		return m, m.loadDaqCmd()
	}
	return m, nil
}

func (m model) handlePicked(msg pickedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.session.Alert.Set(msg.err.Error())
		return m, nil
	}
	if msg.path == "" {
		// Cancelled dialogs change nothing.
		return m, nil
	}
	switch msg.target {
	case "video":
		return m, m.commandCmd("setVideoPath", func(ctx context.Context) error {
			return m.session.Control.SetVideoPath(ctx, msg.path)
		})
	case "daq":
		return m, m.commandCmd("setDaqPath", func(ctx context.Context) error {
			return m.session.Control.SetDaqPath(ctx, msg.path)
		})
	case "config":
		return m, m.commandCmd("loadConfig", func(ctx context.Context) error {
			return m.session.Control.Load(ctx, msg.path)
		})
	case "savedir":
		return m, m.commandCmd("setSaveDir", func(ctx context.Context) error {
			return m.session.Control.SetSaveDir(ctx, msg.path)
		})
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.inputTarget != inputNone {
		return m.handleInputKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.session.Alert.Clear()
		return m, nil
	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case "1":
		m.activeView = viewOverview
		return m, nil
	case "2":
		m.activeView = viewSetup
		return m, nil
	case "3":
		m.activeView = viewFrames
		return m.enterFramesView()
	case "4":
		m.activeView = viewDAQ
		return m.enterDaqView()
	case "5":
		m.activeView = viewActivity
		return m, nil
	}

	// A pending alert gates every command key until dismissed.
	if m.session.Alert.Active() {
		return m, nil
	}
	if m.loading {
		return m, nil
	}

	switch m.activeView {
	case viewSetup:
		return m.handleSetupKey(msg)
	case viewFrames:
		return m.handleFramesKey(msg)
	case viewDAQ:
		return m.handleDaqKey(msg)
	}
	return m, nil
}

func (m model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputTarget = inputNone
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	case "enter":
		return m.commitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) commitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	target := m.inputTarget
	m.inputTarget = inputNone
	m.input.Blur()
	m.input.SetValue("")
	if value == "" {
		return m, nil
	}

	switch target {
	case inputStartFrame:
		index, err := strconv.Atoi(value)
		if err != nil {
			m.session.Alert.Set("start frame must be a number")
			return m, nil
		}
		return m, m.commandCmd("setStartFrame", func(ctx context.Context) error {
			return m.session.Control.SetStartFrame(ctx, index)
		})
	case inputStartRow:
		index, err := strconv.Atoi(value)
		if err != nil {
			m.session.Alert.Set("start row must be a number")
			return m, nil
		}
		return m, m.commandCmd("setStartRow", func(ctx context.Context) error {
			return m.session.Control.SetStartRow(ctx, index)
		})
	case inputRegion:
		topLeft, shape, err := parseRegion(value)
		if err != nil {
			m.session.Alert.Set(err.Error())
			return m, nil
		}
		return m, m.commandCmd("setRegion", func(ctx context.Context) error {
			return m.session.Control.SetRegion(ctx, topLeft, shape)
		})
	case inputFrameJump:
		index, err := strconv.Atoi(value)
		if err != nil {
			m.session.Alert.Set("frame index must be a number")
			return m, nil
		}
		return m.scrubTo(index)
	case inputVideoPath:
		return m, m.commandCmd("setVideoPath", func(ctx context.Context) error {
			return m.session.Control.SetVideoPath(ctx, value)
		})
	case inputDaqPath:
		return m, m.commandCmd("setDaqPath", func(ctx context.Context) error {
			return m.session.Control.SetDaqPath(ctx, value)
		})
	case inputConfigPath:
		return m, m.commandCmd("loadConfig", func(ctx context.Context) error {
			return m.session.Control.Load(ctx, value)
		})
	case inputSaveDirPath:
		return m, m.commandCmd("setSaveDir", func(ctx context.Context) error {
			return m.session.Control.SetSaveDir(ctx, value)
		})
	}
	return m, nil
}

// parseRegion reads "y,x,height,width".
func parseRegion(value string) (topLeft, shape [2]int, err error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return topLeft, shape, fmt.Errorf("region must be y,x,height,width")
	}
	numbers := make([]int, 4)
	for i, part := range parts {
		numbers[i], err = strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return topLeft, shape, fmt.Errorf("region must be y,x,height,width")
		}
	}
	return [2]int{numbers[0], numbers[1]}, [2]int{numbers[2], numbers[3]}, nil
}

func (m model) handleSetupKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "v":
		return m.startPick("video")
	case "d":
		return m.startPick("daq")
	case "o":
		return m.startPick("config")
	case "w":
		return m.startPick("savedir")
	case "n":
		return m, m.commandCmd("newCase", func(ctx context.Context) error {
			return m.session.Control.LoadDefault(ctx)
		})
	case "ctrl+s":
		return m, m.commandCmd("saveConfig", func(ctx context.Context) error {
			return m.session.Control.Save(ctx)
		})
	case "f":
		return m.openInput(inputStartFrame, "start frame index"), nil
	case "r":
		return m.openInput(inputStartRow, "start row index"), nil
	case "e":
		return m.openInput(inputRegion, "region y,x,height,width"), nil
	case "ctrl+r":
		m.loading = true
		m.statusText = "starting solve..."
		return m, m.startSolveCmd()
	}
	return m, nil
}

func (m model) handleFramesKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	cfg := m.session.Store.Current()
	if cfg.TotalFrames == 0 {
		return m, nil
	}
	switch msg.String() {
	case "h", "left":
		return m.scrubTo(m.currentScrubIndex() - 1)
	case "l", "right":
		return m.scrubTo(m.currentScrubIndex() + 1)
	case "H":
		return m.scrubTo(m.currentScrubIndex() - 10)
	case "L":
		return m.scrubTo(m.currentScrubIndex() + 10)
	case "g":
		return m.openInput(inputFrameJump, "frame index"), nil
	case "s":
		return m.synchronizeFromFrames()
	}
	return m, nil
}

func (m model) handleDaqKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.daq == nil {
		return m, nil
	}
	switch msg.String() {
	case "j", "down":
		m.daq.MoveSelection(1, 0)
		return m, nil
	case "k", "up":
		m.daq.MoveSelection(-1, 0)
		return m, nil
	case "h", "left":
		m.daq.MoveSelection(0, -1)
		return m, nil
	case "l", "right":
		m.daq.MoveSelection(0, 1)
		return m, nil
	case "J":
		m.daq.MoveSelection(10, 0)
		return m, nil
	case "K":
		m.daq.MoveSelection(-10, 0)
		return m, nil
	case "ctrl+d":
		m.daq.Scroll(m.daqPageSize(), 0)
		return m, nil
	case "ctrl+u":
		m.daq.Scroll(-m.daqPageSize(), 0)
		return m, nil
	case "s":
		return m.synchronizeFromDaq()
	}
	return m, nil
}

func (m model) enterFramesView() (tea.Model, tea.Cmd) {
	cfg := m.session.Store.Current()
	if cfg.TotalFrames == 0 {
		return m, nil
	}
	if _, ok := m.session.Frames.Current(); !ok && m.session.Frames.Desired() < 0 {
		return m.scrubTo(cfg.StartFrame)
	}
	return m, nil
}

func (m model) enterDaqView() (tea.Model, tea.Cmd) {
	cfg := m.session.Store.Current()
	if m.daq == nil && cfg.DaqPath != "" && !m.loading {
		m.loading = true
		return m, m.loadDaqCmd()
	}
	m.resizeDaqView()
	return m, nil
}

func (m model) currentScrubIndex() int {
	if desired := m.session.Frames.Desired(); desired >= 0 {
		return desired
	}
	return m.session.Store.Current().StartFrame
}

func (m model) scrubTo(index int) (tea.Model, tea.Cmd) {
	cfg := m.session.Store.Current()
	if index < 0 {
		index = 0
	}
	if index >= cfg.TotalFrames {
		index = cfg.TotalFrames - 1
	}
	if index < 0 {
		return m, nil
	}
	return m, m.requestFrame(index)
}

// requestFrame records intent first, then issues the fetch tagged with that
// index.
func (m model) requestFrame(index int) tea.Cmd {
	wanted := m.session.Frames.Want(index)
	timeout := time.Duration(m.cfg.FrameTimeoutSec) * time.Second
	client := m.client.WithTimeout(timeout)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout+time.Second)
		defer cancel()
		frame, err := client.GetFrame(ctx, wanted)
		return frameLoadedMsg{index: wanted, frame: frame, err: err}
	}
}

func (m model) loadDaqCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		daq, err := m.client.GetDAQ(ctx)
		return daqLoadedMsg{daq: daq, err: err}
	}
}

func (m model) startSolveCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		job, err := m.client.StartSolve(ctx)
		return solveStartedMsg{job: job, err: err}
	}
}

func (m model) commandCmd(command string, run func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		return commandDoneMsg{command: command, err: run(ctx)}
	}
}

func (m model) startPick(target string) (tea.Model, tea.Cmd) {
	// Without a native dialog the path is typed in directly.
	if m.pick == nil {
		switch target {
		case "video":
			return m.openInput(inputVideoPath, "video file path"), nil
		case "daq":
			return m.openInput(inputDaqPath, "daq file path"), nil
		case "config":
			return m.openInput(inputConfigPath, "case config path"), nil
		case "savedir":
			return m.openInput(inputSaveDirPath, "save directory"), nil
		}
		return m, nil
	}
	m.loading = true
	m.statusText = "waiting for file dialog..."
	pick := m.pick
	return m, func() tea.Msg {
		var path string
		var err error
		switch target {
		case "video":
			path, err = pick.VideoFile()
		case "daq":
			path, err = pick.DaqFile()
		case "config":
			path, err = pick.ConfigFile()
		case "savedir":
			path, err = pick.Directory()
		}
		return pickedMsg{target: target, path: path, err: err}
	}
}

func (m model) openInput(target inputTarget, placeholder string) model {
	m.inputTarget = target
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m model) synchronizeFromFrames() (tea.Model, tea.Cmd) {
	frameIndex := m.session.Frames.Desired()
	rowIndex := -1
	if m.daq != nil {
		rowIndex, _ = m.daq.Selection()
	}
	return m, m.commandCmd("synchronize", func(ctx context.Context) error {
		return m.session.Control.Synchronize(ctx, frameIndex, rowIndex)
	})
}

func (m model) synchronizeFromDaq() (tea.Model, tea.Cmd) {
	rowIndex, _ := m.daq.Selection()
	frameIndex := m.session.Frames.Desired()
	return m, m.commandCmd("synchronize", func(ctx context.Context) error {
		return m.session.Control.Synchronize(ctx, frameIndex, rowIndex)
	})
}

func (m *model) resizeDaqView() {
	if m.daq == nil {
		return
	}
	layout := computeLayout(m.width, m.height)
	m.daq.Resize(maxInt(1, layout.BodyHeight-4), maxInt(1, (layout.Width-8)/9))
}

func (m model) daqPageSize() int {
	layout := computeLayout(m.width, m.height)
	return maxInt(1, layout.BodyHeight-4)
}
