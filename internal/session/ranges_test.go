package session

import (
	"testing"

	"github.com/Starpact/tlc/internal/engine"
)

func TestFrameRangeLabelIsOneBasedInclusive(t *testing.T) {
	cfg := engine.Config{StartFrame: 50, FrameNum: 100, TotalFrames: 500}
	if got := FrameRangeLabel(cfg); got != "51-150 of 500" {
		t.Fatalf("label = %q, want %q", got, "51-150 of 500")
	}
}

func TestRangeLabelSuppressedWithoutScope(t *testing.T) {
	if got := FrameRangeLabel(engine.Config{TotalFrames: 500}); got != "" {
		t.Fatalf("label = %q with frame_num 0, want empty", got)
	}
	if got := RowRangeLabel(engine.Config{}); got != "" {
		t.Fatalf("label = %q with no data, want empty", got)
	}
}

func TestRowRangeLabelUsesRowFields(t *testing.T) {
	cfg := engine.Config{StartRow: 10, FrameNum: 20, TotalRows: 2000}
	if got := RowRangeLabel(cfg); got != "11-30 of 2000" {
		t.Fatalf("label = %q, want %q", got, "11-30 of 2000")
	}
}
