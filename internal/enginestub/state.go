// Package enginestub is a stand-in computation engine for local development.
// It speaks the full command protocol, enforces the same configuration
// invariants as the real engine, and serves synthetic frames and DAQ data so
// the front end can be exercised without lab captures.
package enginestub

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Starpact/tlc/internal/engine"
)

const (
	syntheticTotalFrames = 2000
	syntheticFrameRate   = 25
	syntheticVideoWidth  = 640
	syntheticVideoHeight = 480
	syntheticTotalRows   = 2500
	syntheticDaqCols     = 10

	// Frames are decimated before crossing the wire; full resolution is
	// pointless in a terminal viewer.
	frameDecimation = 2
)

var errNoVideo = errors.New("video path is not set")
var errNoDaq = errors.New("daq path is not set")

// State is the engine-side canonical configuration. All mutation goes through
// command methods that validate first and return the full updated config.
type State struct {
	mu  sync.Mutex
	cfg engine.Config
}

func NewState() *State {
	return &State{}
}

func (s *State) Current() engine.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// LoadDefault resets to an empty configuration.
func (s *State) LoadDefault() engine.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = engine.Config{}
	return s.cfg
}

// Load reads a case configuration from disk and re-probes its sources so the
// derived fields reflect what the engine can actually see now.
func (s *State) Load(path string) (engine.Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("read case configuration: %w", err)
	}
	var cfg engine.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return engine.Config{}, fmt.Errorf("parse case configuration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if s.cfg.VideoPath != "" {
		s.probeVideoLocked()
	}
	if s.cfg.DaqPath != "" {
		s.probeDaqLocked()
	}
	s.refreshFrameNumLocked()
	return s.cfg, nil
}

// Save writes the configuration under <save_dir>/config/<case_name>.json and
// returns the path written.
func (s *State) Save() (string, error) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if cfg.SaveDir == "" {
		return "", errors.New("save directory is not set")
	}
	if cfg.CaseName == "" {
		return "", errNoVideo
	}
	dir := filepath.Join(cfg.SaveDir, "config")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, cfg.CaseName+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write case configuration: %w", err)
	}
	return path, nil
}

func (s *State) SetSaveDir(path string) (engine.Config, error) {
	if path == "" {
		return engine.Config{}, errors.New("save directory must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.SaveDir = path
	return s.cfg, nil
}

// SetVideoPath probes the video and resets the frame scope. The case takes
// its name from the video file stem.
func (s *State) SetVideoPath(path string) (engine.Config, error) {
	if path == "" {
		return engine.Config{}, errNoVideo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.VideoPath = path
	s.probeVideoLocked()
	s.cfg.StartFrame = 0
	s.refreshFrameNumLocked()
	return s.cfg, nil
}

func (s *State) SetDaqPath(path string) (engine.Config, error) {
	if path == "" {
		return engine.Config{}, errNoDaq
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.DaqPath = path
	s.probeDaqLocked()
	s.cfg.StartRow = 0
	s.refreshFrameNumLocked()
	return s.cfg, nil
}

func (s *State) SetStartFrame(index int) (engine.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.TotalFrames == 0 {
		return engine.Config{}, errNoVideo
	}
	if index < 0 || index >= s.cfg.TotalFrames {
		return engine.Config{}, fmt.Errorf("start frame %d out of range, video has %d frames", index, s.cfg.TotalFrames)
	}
	s.cfg.StartFrame = index
	s.refreshFrameNumLocked()
	return s.cfg, nil
}

func (s *State) SetStartRow(index int) (engine.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.TotalRows == 0 {
		return engine.Config{}, errNoDaq
	}
	if index < 0 || index >= s.cfg.TotalRows {
		return engine.Config{}, fmt.Errorf("start row %d out of range, daq has %d rows", index, s.cfg.TotalRows)
	}
	s.cfg.StartRow = index
	s.refreshFrameNumLocked()
	return s.cfg, nil
}

func (s *State) SetRegion(topLeft, shape [2]int) (engine.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.TotalFrames == 0 {
		return engine.Config{}, errNoVideo
	}
	if shape[0] <= 0 || shape[1] <= 0 {
		return engine.Config{}, errors.New("region shape must be positive")
	}
	if topLeft[0] < 0 || topLeft[1] < 0 ||
		topLeft[0]+shape[0] > syntheticVideoHeight || topLeft[1]+shape[1] > syntheticVideoWidth {
		return engine.Config{}, fmt.Errorf("region exceeds video bounds %dx%d", syntheticVideoHeight, syntheticVideoWidth)
	}
	tl, sh := topLeft, shape
	s.cfg.TopLeftPos = &tl
	s.cfg.RegionShape = &sh
	return s.cfg, nil
}

// Synchronize anchors frame and row to the same physical instant by making
// them the new scope origins.
func (s *State) Synchronize(frameIndex, rowIndex int) (engine.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.TotalFrames == 0 {
		return engine.Config{}, errNoVideo
	}
	if s.cfg.TotalRows == 0 {
		return engine.Config{}, errNoDaq
	}
	if frameIndex < 0 || frameIndex >= s.cfg.TotalFrames {
		return engine.Config{}, fmt.Errorf("frame %d out of range, video has %d frames", frameIndex, s.cfg.TotalFrames)
	}
	if rowIndex < 0 || rowIndex >= s.cfg.TotalRows {
		return engine.Config{}, fmt.Errorf("row %d out of range, daq has %d rows", rowIndex, s.cfg.TotalRows)
	}
	s.cfg.StartFrame = frameIndex
	s.cfg.StartRow = rowIndex
	s.refreshFrameNumLocked()
	return s.cfg, nil
}

// Frame renders a synthetic grayscale frame at the wire decimation. The
// pattern shifts with the index so scrubbing is visible.
func (s *State) Frame(index int) (engine.Frame, error) {
	s.mu.Lock()
	total := s.cfg.TotalFrames
	s.mu.Unlock()
	if total == 0 {
		return engine.Frame{}, errNoVideo
	}
	if index < 0 || index >= total {
		return engine.Frame{}, fmt.Errorf("frame %d out of range, video has %d frames", index, total)
	}

	width := syntheticVideoWidth / frameDecimation
	height := syntheticVideoHeight / frameDecimation
	data := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			data[y*width+x] = byte((x + y + index*3) % 256)
		}
	}
	return engine.Frame{Index: index, Width: width, Height: height, Data: data}, nil
}

// DAQ generates the synthetic data matrix: one slow ramp per column with a
// column-dependent offset.
func (s *State) DAQ() (engine.DAQ, error) {
	s.mu.Lock()
	rows, cols := s.cfg.TotalRows, syntheticDaqCols
	s.mu.Unlock()
	if rows == 0 {
		return engine.DAQ{}, errNoDaq
	}

	data := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = 20.0 + float64(c)*2.5 + float64(r)*0.01
		}
	}
	return engine.DAQ{Dim: [2]int{rows, cols}, Data: data}, nil
}

// SolveReady reports whether the configuration is complete enough to start a
// solve.
func (s *State) SolveReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.cfg.TotalFrames == 0:
		return errNoVideo
	case s.cfg.TotalRows == 0:
		return errNoDaq
	case s.cfg.TopLeftPos == nil || s.cfg.RegionShape == nil:
		return errors.New("calculation region is not set")
	case s.cfg.FrameNum == 0:
		return errors.New("no frames in scope")
	case s.cfg.SaveDir == "":
		return errors.New("save directory is not set")
	}
	return nil
}

func (s *State) probeVideoLocked() {
	s.cfg.TotalFrames = syntheticTotalFrames
	s.cfg.FrameRate = syntheticFrameRate
	s.cfg.CaseName = strings.TrimSuffix(filepath.Base(s.cfg.VideoPath), filepath.Ext(s.cfg.VideoPath))
}

func (s *State) probeDaqLocked() {
	s.cfg.TotalRows = syntheticTotalRows
	s.cfg.Thermocouples = make([]engine.Thermocouple, syntheticDaqCols)
	for c := 0; c < syntheticDaqCols; c++ {
		s.cfg.Thermocouples[c] = engine.Thermocouple{
			ColumnIndex: c,
			Pos:         [2]int{syntheticVideoHeight / 2, (c + 1) * syntheticVideoWidth / (syntheticDaqCols + 1)},
		}
	}
}

// frame_num is always derived, never set directly: the scope ends where
// either source runs out.
func (s *State) refreshFrameNumLocked() {
	if s.cfg.TotalFrames == 0 || s.cfg.TotalRows == 0 {
		s.cfg.FrameNum = 0
		return
	}
	frames := s.cfg.TotalFrames - s.cfg.StartFrame
	rows := s.cfg.TotalRows - s.cfg.StartRow
	if rows < frames {
		frames = rows
	}
	if frames < 0 {
		frames = 0
	}
	s.cfg.FrameNum = frames
}
