package session

import (
	"fmt"

	"github.com/Starpact/tlc/internal/engine"
)

// FrameRangeLabel renders the in-scope frame range with 1-based inclusive
// bounds, e.g. start_frame 50 + frame_num 100 of 500 reads "51-150 of 500".
// While frame_num is zero the scope is not yet determined and no label is
// shown.
func FrameRangeLabel(cfg engine.Config) string {
	return rangeLabel(cfg.StartFrame, cfg.FrameNum, cfg.TotalFrames)
}

// RowRangeLabel is the DAQ-row counterpart of FrameRangeLabel.
func RowRangeLabel(cfg engine.Config) string {
	return rangeLabel(cfg.StartRow, cfg.FrameNum, cfg.TotalRows)
}

func rangeLabel(start, num, total int) string {
	if num <= 0 || total <= 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d of %d", start+1, start+num, total)
}
