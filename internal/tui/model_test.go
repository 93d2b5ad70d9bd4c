package tui

import (
	"io"
	"log/slog"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Starpact/tlc/internal/config"
	"github.com/Starpact/tlc/internal/engine"
	"github.com/Starpact/tlc/internal/session"
)

func keyPress(code rune, text string, mods ...tea.KeyMod) tea.KeyPressMsg {
	var mod tea.KeyMod
	for _, item := range mods {
		mod |= item
	}
	return tea.KeyPressMsg(tea.Key{
		Code: code,
		Text: text,
		Mod:  mod,
	})
}

func keyRune(r rune) tea.KeyPressMsg {
	return keyPress(r, string(r))
}

func newTestModel() model {
	cfg := config.Config{
		Environment:      "test",
		EngineURL:        "http://engine.test",
		EngineTimeoutSec: 2,
		FrameTimeoutSec:  2,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := engine.New(cfg, logger)
	sess := session.New(client, logger)
	m := newModel(cfg, client, sess, nil, logger)
	m.width = 140
	m.height = 48
	return m
}

func seedConfig(m model, cfg engine.Config) model {
	m.session.Store.Replace(cfg)
	return m
}

func TestNumericViewSwitch(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(keyRune('2'))
	typed := updated.(model)
	if typed.activeView != viewSetup {
		t.Fatalf("active view = %s, want %s", typed.activeView, viewSetup)
	}
	updated, _ = typed.Update(keyRune('5'))
	typed = updated.(model)
	if typed.activeView != viewActivity {
		t.Fatalf("active view = %s, want %s", typed.activeView, viewActivity)
	}
}

func TestWindowResizeUpdatesDimensions(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 52})
	typed := updated.(model)
	if typed.width != 160 || typed.height != 52 {
		t.Fatalf("dimensions = %dx%d, want 160x52", typed.width, typed.height)
	}
}

func TestAlertGatesCommandKeys(t *testing.T) {
	m := seedConfig(newTestModel(), engine.Config{TotalFrames: 100, TotalRows: 100, FrameNum: 100})
	m.activeView = viewFrames
	m.session.Alert.Set("start frame exceeds total frames")

	updated, cmd := m.Update(keyRune('l'))
	typed := updated.(model)
	if cmd != nil {
		t.Fatal("command keys must be inert while the alert is active")
	}
	if typed.session.Frames.Desired() != -1 {
		t.Fatal("scrub intent must not move while the alert is active")
	}

	updated, _ = typed.Update(keyPress(tea.KeyEscape, ""))
	typed = updated.(model)
	if typed.session.Alert.Active() {
		t.Fatal("esc must dismiss the alert")
	}
	_, cmd = typed.Update(keyRune('l'))
	if cmd == nil {
		t.Fatal("command keys should work again after dismissal")
	}
}

func TestNavigationStillWorksWhileAlertActive(t *testing.T) {
	m := newTestModel()
	m.session.Alert.Set("engine unreachable")

	updated, _ := m.Update(keyRune('5'))
	typed := updated.(model)
	if typed.activeView != viewActivity {
		t.Fatal("view switching must not be gated by the alert")
	}
}

func TestStaleFrameResultDiscardedByUpdate(t *testing.T) {
	m := seedConfig(newTestModel(), engine.Config{TotalFrames: 100})
	m.session.Frames.Want(5)
	m.session.Frames.Want(9)

	updated, _ := m.Update(frameLoadedMsg{frame: engine.Frame{Index: 5, Width: 1, Height: 1, Data: []byte{0}}})
	typed := updated.(model)
	if _, ok := typed.session.Frames.Current(); ok {
		t.Fatal("stale frame 5 must not be displayed")
	}

	updated, _ = typed.Update(frameLoadedMsg{frame: engine.Frame{Index: 9, Width: 1, Height: 1, Data: []byte{0}}})
	typed = updated.(model)
	frame, ok := typed.session.Frames.Current()
	if !ok || frame.Index != 9 {
		t.Fatalf("displayed frame = %+v ok=%v, want index 9", frame, ok)
	}
}

func TestDaqLoadedBuildsWindowedView(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(daqLoadedMsg{daq: engine.DAQ{Dim: [2]int{4, 2}, Data: make([]float64, 8)}})
	typed := updated.(model)
	if typed.daq == nil {
		t.Fatal("daq view should be built from the loaded matrix")
	}
	if typed.daq.Rows() != 4 || typed.daq.Cols() != 2 {
		t.Fatalf("daq view = %dx%d, want 4x2", typed.daq.Rows(), typed.daq.Cols())
	}
}

func TestFailedFrameLoadRaisesAlert(t *testing.T) {
	m := newTestModel()
	m.session.Frames.Want(42)
	updated, _ := m.Update(frameLoadedMsg{index: 42, err: &engine.Error{Command: "getFrame", Message: "frame 42 out of range"}})
	typed := updated.(model)
	if got := typed.session.Alert.Message(); got != "frame 42 out of range" {
		t.Fatalf("alert = %q, want the engine message verbatim", got)
	}
}

func TestSupersededFrameFailureIsSilent(t *testing.T) {
	m := newTestModel()
	m.session.Frames.Want(5)
	m.session.Frames.Want(9)

	updated, _ := m.Update(frameLoadedMsg{index: 5, err: &engine.Error{Command: "getFrame", Message: "frame 5 out of range"}})
	typed := updated.(model)
	if typed.session.Alert.Active() {
		t.Fatal("a superseded request's failure must not raise the alert")
	}

	updated, _ = typed.Update(frameLoadedMsg{index: 9, frame: engine.Frame{Index: 9, Width: 1, Height: 1, Data: []byte{0}}})
	typed = updated.(model)
	if frame, ok := typed.session.Frames.Current(); !ok || frame.Index != 9 {
		t.Fatal("the still-wanted frame should display normally")
	}
}

func TestPickCancelledChangesNothing(t *testing.T) {
	m := newTestModel()
	updated, cmd := m.Update(pickedMsg{target: "video", path: ""})
	typed := updated.(model)
	if cmd != nil {
		t.Fatal("a cancelled dialog must not dispatch any command")
	}
	if typed.session.Alert.Active() {
		t.Fatal("a cancelled dialog is not an error")
	}
}

func TestMissingPickerFallsBackToTypedPath(t *testing.T) {
	m := newTestModel()
	m.activeView = viewSetup

	updated, _ := m.Update(keyRune('v'))
	typed := updated.(model)
	if typed.inputTarget != inputVideoPath {
		t.Fatal("without a native dialog the video path should be typed in")
	}

	for _, r := range "/data/run.avi" {
		updated, _ = typed.Update(keyRune(r))
		typed = updated.(model)
	}
	updated, cmd := typed.Update(keyPress(tea.KeyEnter, ""))
	typed = updated.(model)
	if cmd == nil {
		t.Fatal("committing the typed path should dispatch the command")
	}
	if typed.inputTarget != inputNone {
		t.Fatal("input mode should close on commit")
	}
}

func TestVideoPathChangeResetsFrameState(t *testing.T) {
	m := seedConfig(newTestModel(), engine.Config{VideoPath: "/data/run.avi", TotalFrames: 100, DaqPath: ""})
	m.session.Frames.Want(42)
	m.session.Frames.Install(engine.Frame{Index: 42})

	updated, cmd := m.Update(commandDoneMsg{command: "setVideoPath"})
	typed := updated.(model)
	if _, ok := typed.session.Frames.Current(); ok {
		t.Fatal("displayed frame must be dropped when the video changes")
	}
	if cmd == nil {
		t.Fatal("a fresh frame fetch should be issued for the new video")
	}
}

func TestSolveStartedSwitchesToActivity(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(solveStartedMsg{job: engine.SolveJob{JobID: "solve-1"}})
	typed := updated.(model)
	if typed.activeView != viewActivity {
		t.Fatalf("active view = %s after solve start, want %s", typed.activeView, viewActivity)
	}
	if typed.jobID != "solve-1" {
		t.Fatalf("job id = %q, want solve-1", typed.jobID)
	}
}

func TestProgressFeedIsBounded(t *testing.T) {
	m := newTestModel()
	typed := m
	for i := 0; i < progressFeedLimit+50; i++ {
		updated, _ := typed.Update(progressMsg{progress: engine.Progress{Done: i, Total: 1000}})
		typed = updated.(model)
	}
	if len(typed.progress) != progressFeedLimit {
		t.Fatalf("progress feed holds %d ticks, want capped at %d", len(typed.progress), progressFeedLimit)
	}
	if typed.progress[len(typed.progress)-1].Done != progressFeedLimit+49 {
		t.Fatal("the newest tick should be kept when trimming")
	}
}

func TestParseRegion(t *testing.T) {
	topLeft, shape, err := parseRegion("10, 20, 300, 400")
	if err != nil {
		t.Fatalf("parseRegion: %v", err)
	}
	if topLeft != [2]int{10, 20} || shape != [2]int{300, 400} {
		t.Fatalf("parsed (%v, %v), want ([10 20], [300 400])", topLeft, shape)
	}
	if _, _, err := parseRegion("10,20,300"); err == nil {
		t.Fatal("expected error for a three-part region")
	}
	if _, _, err := parseRegion("a,b,c,d"); err == nil {
		t.Fatal("expected error for non-numeric region")
	}
}

func TestSourceChangeRefetchesWantedFrame(t *testing.T) {
	m := seedConfig(newTestModel(), engine.Config{VideoPath: "/data/run.avi", TotalFrames: 100})
	m.session.Frames.Want(17)
	m.session.Frames.Install(engine.Frame{Index: 17})

	updated, cmd := m.Update(sourceChangedMsg{path: "/data/run.avi"})
	typed := updated.(model)
	if _, ok := typed.session.Frames.Current(); ok {
		t.Fatal("cached frame must be invalidated when the file changes")
	}
	if cmd == nil {
		t.Fatal("the wanted frame should be refetched")
	}
}

func TestRenderViewDoesNotPanicAcrossViews(t *testing.T) {
	m := seedConfig(newTestModel(), engine.Config{
		CaseName: "run", VideoPath: "/data/run.avi", DaqPath: "/data/run.lvm",
		TotalFrames: 100, TotalRows: 100, FrameNum: 100, FrameRate: 25,
	})
	for _, view := range allViews() {
		m.activeView = view
		if out := m.renderView(); out == "" {
			t.Fatalf("view %s rendered empty output", view)
		}
	}
}
