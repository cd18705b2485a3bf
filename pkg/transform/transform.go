// Package transform implements the crop geometry behind the badge preview:
// cover-fit calculation, discrete wheel zoom, pan accumulation and the
// offset clamping that keeps the photo gap-free inside the viewport.
package transform

import (
	"errors"
	"fmt"
	"math"
)

// Zoom limits and the per-tick wheel ratio.
const (
	MinScale  = 1.0
	MaxScale  = 5.0
	ZoomRatio = 1.1
)

// ErrInvalidDimensions is returned when an image with a zero or negative
// dimension is fed into the fit calculator.
var ErrInvalidDimensions = errors.New("invalid image dimensions")

// State holds the zoom/pan parameters for one loaded image relative to a
// square preview viewport. It is a plain value: every operator takes a
// State and returns a new one, so the geometry is testable without a
// live viewport.
type State struct {
	// Scale is the user zoom multiplier on top of cover fit.
	// 1.0 means the image exactly covers the viewport.
	Scale float64

	// OffsetX and OffsetY are pan offsets in viewport pixels,
	// applied after centering.
	OffsetX float64
	OffsetY float64

	// BaseCoverScale makes the natural image exactly cover the
	// viewport. Recomputed on every image load.
	BaseCoverScale float64

	// NaturalWidth and NaturalHeight are the source image pixel
	// dimensions.
	NaturalWidth  int
	NaturalHeight int

	// Viewport is the preview square side the offsets are relative to.
	Viewport int
}

// CoverScale returns the minimal uniform scale that makes an image of
// the given natural dimensions fully cover a square viewport. Taking the
// max of the two axis scales guarantees the smaller scaled dimension
// still meets the viewport, so no edge is left uncovered.
func CoverScale(naturalW, naturalH, viewport int) (float64, error) {
	if naturalW <= 0 || naturalH <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, naturalW, naturalH)
	}
	if viewport <= 0 {
		return 0, fmt.Errorf("%w: viewport %d", ErrInvalidDimensions, viewport)
	}
	sx := float64(viewport) / float64(naturalW)
	sy := float64(viewport) / float64(naturalH)
	return math.Max(sx, sy), nil
}

// Reset builds a fresh State for a newly loaded image, discarding any
// prior pan/zoom. Scale starts at 1.0 and can never go below it, so the
// cover guarantee holds from the first frame.
func Reset(naturalW, naturalH, viewport int) (State, error) {
	base, err := CoverScale(naturalW, naturalH, viewport)
	if err != nil {
		return State{}, err
	}
	return State{
		Scale:          1.0,
		BaseCoverScale: base,
		NaturalWidth:   naturalW,
		NaturalHeight:  naturalH,
		Viewport:       viewport,
	}, nil
}

// FinalScale is the effective scale applied to the natural image.
func (s State) FinalScale() float64 {
	return s.BaseCoverScale * s.Scale
}

// ScaledSize returns the drawn image size in viewport pixels.
func (s State) ScaledSize() (w, h float64) {
	f := s.FinalScale()
	return float64(s.NaturalWidth) * f, float64(s.NaturalHeight) * f
}

// ApplyZoom applies one discrete wheel tick. Positive direction zooms in
// by ZoomRatio, negative zooms out by 1/ZoomRatio. Scale is clamped into
// [MinScale, MaxScale] and the offsets are re-clamped afterwards, since
// the valid pan range shrinks as the scale decreases.
func ApplyZoom(s State, direction int) State {
	switch {
	case direction > 0:
		s.Scale *= ZoomRatio
	case direction < 0:
		s.Scale /= ZoomRatio
	}
	if s.Scale < MinScale {
		s.Scale = MinScale
	}
	if s.Scale > MaxScale {
		s.Scale = MaxScale
	}
	return ClampOffset(s)
}

// ApplyPan adds raw pointer or touch movement deltas, in viewport
// pixels, then re-clamps. Mouse drag and touch drag both feed this
// operator.
func ApplyPan(s State, dx, dy float64) State {
	s.OffsetX += dx
	s.OffsetY += dy
	return ClampOffset(s)
}

// ClampOffset restricts the pan offsets so the scaled image never leaves
// a gap inside the viewport. Per axis the image may shift by at most
// half of its overflow beyond the viewport. This is the sole enforcement
// point of the no-gap invariant and it is idempotent.
func ClampOffset(s State) State {
	w, h := s.ScaledSize()
	v := float64(s.Viewport)
	s.OffsetX = clampAxis(s.OffsetX, overflow(w, v))
	s.OffsetY = clampAxis(s.OffsetY, overflow(h, v))
	return s
}

// ZoomDirection converts a wheel delta into a tick direction. Scrolling
// up (negative delta in screen coordinates) zooms in.
func ZoomDirection(wheelDelta float64) int {
	switch {
	case wheelDelta < 0:
		return 1
	case wheelDelta > 0:
		return -1
	}
	return 0
}

func overflow(scaled, viewport float64) float64 {
	return math.Max(0, scaled-viewport) / 2
}

func clampAxis(offset, limit float64) float64 {
	if offset > limit {
		return limit
	}
	if offset < -limit {
		return -limit
	}
	return offset
}
