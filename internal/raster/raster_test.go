package raster

import (
	"image"
	"strings"
	"testing"

	"github.com/Starpact/tlc/internal/engine"
)

func TestImageRejectsShortBuffer(t *testing.T) {
	if got := Image(engine.Frame{Width: 4, Height: 4, Data: make([]byte, 3)}); got != nil {
		t.Fatal("short pixel buffer must yield no image")
	}
	if got := Image(engine.Frame{}); got != nil {
		t.Fatal("empty frame must yield no image")
	}
}

func TestScaleToFitPreservesAspectRatio(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 200, 100))
	dst := ScaleToFit(src, 50, 50)
	if dst.Rect.Dx() != 50 || dst.Rect.Dy() != 25 {
		t.Fatalf("scaled to %dx%d, want 50x25", dst.Rect.Dx(), dst.Rect.Dy())
	}
}

func TestScaleToFitKeepsSmallSource(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	if dst := ScaleToFit(src, 50, 50); dst != src {
		t.Fatal("a source that already fits must be returned unscaled")
	}
}

func TestRenderPacksTwoRowsPerLine(t *testing.T) {
	frame := engine.Frame{Index: 0, Width: 4, Height: 4, Data: make([]byte, 16)}
	out := Render(frame, 80, 40)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("4 pixel rows rendered as %d lines, want 2", len(lines))
	}
	if !strings.Contains(out, "▀") {
		t.Fatal("output should be painted with upper half blocks")
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	if out := Render(engine.Frame{}, 80, 40); out != "" {
		t.Fatalf("empty frame rendered %q, want empty output", out)
	}
}
