package transform

import (
	"errors"
	"math"
	"testing"
)

func mustReset(t *testing.T, w, h, viewport int) State {
	t.Helper()
	s, err := Reset(w, h, viewport)
	if err != nil {
		t.Fatalf("Reset(%d, %d, %d) failed: %v", w, h, viewport, err)
	}
	return s
}

func TestCoverScale(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		viewport int
		want     float64
	}{
		{"wide image limited by height", 800, 400, 200, 0.5},
		{"tall image limited by width", 400, 800, 200, 0.5},
		{"square image", 600, 600, 300, 0.5},
		{"upscaled small image", 100, 150, 300, 3.0},
	}

	for _, tt := range tests {
		got, err := CoverScale(tt.w, tt.h, tt.viewport)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: expected scale %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestCoverScaleInvalidDimensions(t *testing.T) {
	cases := [][3]int{
		{0, 400, 200},
		{800, 0, 200},
		{-1, 400, 200},
		{800, 400, 0},
	}

	for _, c := range cases {
		if _, err := CoverScale(c[0], c[1], c[2]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("CoverScale(%d, %d, %d): expected ErrInvalidDimensions, got %v", c[0], c[1], c[2], err)
		}
	}
}

func TestCoverInvariant(t *testing.T) {
	dims := [][2]int{
		{800, 400}, {400, 800}, {123, 457}, {5000, 50}, {300, 300}, {1, 1},
	}
	viewport := 200

	for _, d := range dims {
		scale, err := CoverScale(d[0], d[1], viewport)
		if err != nil {
			t.Fatalf("CoverScale(%d, %d, %d) failed: %v", d[0], d[1], viewport, err)
		}
		smaller := math.Min(float64(d[0]), float64(d[1]))
		if scale*smaller < float64(viewport)-1e-9 {
			t.Errorf("%dx%d: scaled smaller axis %f does not cover viewport %d", d[0], d[1], scale*smaller, viewport)
		}
	}
}

func TestReset(t *testing.T) {
	s := mustReset(t, 800, 400, 200)

	if s.Scale != 1.0 {
		t.Errorf("expected scale 1.0, got %f", s.Scale)
	}
	if s.OffsetX != 0 || s.OffsetY != 0 {
		t.Errorf("expected zero offsets, got %f,%f", s.OffsetX, s.OffsetY)
	}
	if s.BaseCoverScale != 0.5 {
		t.Errorf("expected base cover scale 0.5, got %f", s.BaseCoverScale)
	}

	// At cover fit the limiting axis exactly fills the viewport.
	_, h := s.ScaledSize()
	if math.Abs(h-200) > 1e-9 {
		t.Errorf("expected limiting axis to match viewport, got %f", h)
	}
}

func TestResetInvalidDimensions(t *testing.T) {
	if _, err := Reset(0, 0, 200); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestApplyZoomThreeTicks(t *testing.T) {
	s := mustReset(t, 800, 400, 200)
	for i := 0; i < 3; i++ {
		s = ApplyZoom(s, 1)
	}

	want := 1.1 * 1.1 * 1.1
	if math.Abs(s.Scale-want) > 1e-9 {
		t.Errorf("expected scale %f after 3 ticks, got %f", want, s.Scale)
	}
	if s.Scale >= MaxScale {
		t.Errorf("3 ticks should not hit the max scale, got %f", s.Scale)
	}
}

func TestApplyZoomBounds(t *testing.T) {
	s := mustReset(t, 800, 400, 200)

	for i := 0; i < 200; i++ {
		s = ApplyZoom(s, 1)
		if s.Scale < MinScale || s.Scale > MaxScale {
			t.Fatalf("scale %f escaped [%f, %f] while zooming in", s.Scale, MinScale, MaxScale)
		}
	}
	if s.Scale != MaxScale {
		t.Errorf("expected scale pinned at %f, got %f", MaxScale, s.Scale)
	}

	for i := 0; i < 200; i++ {
		s = ApplyZoom(s, -1)
		if s.Scale < MinScale || s.Scale > MaxScale {
			t.Fatalf("scale %f escaped [%f, %f] while zooming out", s.Scale, MinScale, MaxScale)
		}
	}
	if s.Scale != MinScale {
		t.Errorf("expected scale floored at %f, got %f", MinScale, s.Scale)
	}
}

func TestApplyZoomReclampsOffsets(t *testing.T) {
	s := mustReset(t, 400, 400, 200)
	for i := 0; i < 10; i++ {
		s = ApplyZoom(s, 1)
	}
	s = ApplyPan(s, 1e6, 1e6)

	// Zooming all the way back out shrinks the valid offset range to
	// zero; the offsets must follow.
	for i := 0; i < 20; i++ {
		s = ApplyZoom(s, -1)
	}
	if s.OffsetX != 0 || s.OffsetY != 0 {
		t.Errorf("expected offsets reclamped to 0 at cover fit, got %f,%f", s.OffsetX, s.OffsetY)
	}
}

func TestClampOffsetIdempotent(t *testing.T) {
	s := mustReset(t, 800, 400, 200)
	s = ApplyZoom(s, 1)
	s = ApplyPan(s, 37.5, -12.25)

	once := ClampOffset(s)
	twice := ClampOffset(once)
	if once != twice {
		t.Errorf("ClampOffset is not idempotent: %+v vs %+v", once, twice)
	}
}

func TestApplyPanClampedAtCoverFit(t *testing.T) {
	// 800x400 at viewport 200 scales to 400x200: the vertical axis
	// exactly covers, so vertical movement must be impossible while
	// horizontal pan is bounded by half the 200px overflow.
	s := mustReset(t, 800, 400, 200)
	s = ApplyPan(s, 500, 500)

	if s.OffsetY != 0 {
		t.Errorf("expected offsetY clamped to 0 on the limiting axis, got %f", s.OffsetY)
	}
	if s.OffsetX != 100 {
		t.Errorf("expected offsetX clamped to overflow 100, got %f", s.OffsetX)
	}
}

func TestNoGapAfterClamp(t *testing.T) {
	s := mustReset(t, 640, 480, 200)
	s = ApplyZoom(s, 1)
	s = ApplyZoom(s, 1)
	s = ApplyPan(s, -1e5, 1e5)

	w, h := s.ScaledSize()
	v := float64(s.Viewport)

	// Drawn rectangle in viewport coordinates, centered plus offset.
	left := v/2 + s.OffsetX - w/2
	top := v/2 + s.OffsetY - h/2
	if left > 1e-9 || top > 1e-9 {
		t.Errorf("gap on top/left edge: left=%f top=%f", left, top)
	}
	if left+w < v-1e-9 || top+h < v-1e-9 {
		t.Errorf("gap on bottom/right edge: right=%f bottom=%f (viewport %f)", left+w, top+h, v)
	}
}

func TestZoomDirection(t *testing.T) {
	if d := ZoomDirection(-120); d != 1 {
		t.Errorf("scroll up should zoom in, got %d", d)
	}
	if d := ZoomDirection(120); d != -1 {
		t.Errorf("scroll down should zoom out, got %d", d)
	}
	if d := ZoomDirection(0); d != 0 {
		t.Errorf("zero delta should be neutral, got %d", d)
	}
}
