// Package raster turns engine frames into terminal output. Frames arrive as
// row-major grayscale bytes already decimated by the engine; this package
// scales them to the viewer pane and paints two pixel rows per terminal line
// with the upper half block.
package raster

import (
	"image"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/Starpact/tlc/internal/engine"
)

// Image wraps the frame's pixel buffer as an image.Gray without copying.
// Returns nil when the buffer does not match the declared dimensions.
func Image(frame engine.Frame) *image.Gray {
	if frame.Width <= 0 || frame.Height <= 0 || len(frame.Data) < frame.Width*frame.Height {
		return nil
	}
	return &image.Gray{
		Pix:    frame.Data,
		Stride: frame.Width,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}
}

// ScaleToFit performs a nearest-neighbour scale so the result fits within
// maxW x maxH preserving aspect ratio. A source that already fits is returned
// as is.
func ScaleToFit(src *image.Gray, maxW, maxH int) *image.Gray {
	if src == nil {
		return nil
	}
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	newW := int(float64(w)*ratio + 0.5)
	newH := int(float64(h)*ratio + 0.5)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	dst := image.NewGray(image.Rect(0, 0, newW, newH))
	for y := 0; y < newH; y++ {
		sy := y * h / newH
		for x := 0; x < newW; x++ {
			sx := x * w / newW
			dst.SetGray(x, y, src.GrayAt(src.Rect.Min.X+sx, src.Rect.Min.Y+sy))
		}
	}
	return dst
}

// Render paints the frame into a block of styled terminal lines, fitting a
// pane of the given width (cells) and height (lines). Each terminal line
// carries two pixel rows via the upper half block, so the vertical pixel
// budget is 2*height.
func Render(frame engine.Frame, width, height int) string {
	img := ScaleToFit(Image(frame), width, 2*height)
	if img == nil {
		return ""
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	var b strings.Builder
	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			upper := img.GrayAt(x, y)
			lower := color.Gray{}
			if y+1 < h {
				lower = img.GrayAt(x, y+1)
			}
			b.WriteString(lipgloss.NewStyle().
				Foreground(upper).
				Background(lower).
				Render("▀"))
		}
		if y+2 < h {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
