// Package compose renders the final badge: it re-derives the preview
// crop geometry at output resolution, draws the photo, then rasterizes
// the serialized overlay on top.
package compose

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/techlahoma/badge/pkg/source"
	"github.com/techlahoma/badge/pkg/transform"
)

// ErrOverlayRender is returned when the overlay markup cannot be
// decoded or rasterized. The render attempt is aborted; no partial
// output is produced.
var ErrOverlayRender = errors.New("overlay render failed")

// Config controls the output surface and export encoding.
type Config struct {
	ViewportSize int    // preview square side the transform is edited against
	OutputSize   int    // export square side
	Format       string // "png" or "webp"
	Lossless     bool   // WebP lossless mode
	Filename     string // default export filename
}

// DefaultConfig returns the standard preview/export geometry.
func DefaultConfig() Config {
	return Config{
		ViewportSize: 300,
		OutputSize:   1200,
		Format:       "png",
		Lossless:     true,
		Filename:     "badge.png",
	}
}

// Compositor renders badges at a fixed output size.
type Compositor struct {
	cfg Config
}

// New creates a compositor with the default configuration.
func New() *Compositor {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a compositor with a custom configuration.
func NewWithConfig(cfg Config) *Compositor {
	return &Compositor{cfg: cfg}
}

// Config returns the compositor configuration.
func (c *Compositor) Config() Config {
	return c.cfg
}

// Rect is a drawn rectangle in output pixels.
type Rect struct {
	X, Y, W, H float64
}

// Placement projects a preview transform onto an output surface. The
// only coupling between the two frames is the ratio of their sides:
// the drawn size is the natural size times finalScale times that ratio,
// and the center offset scales by the same ratio, so the exported crop
// matches the preview exactly up to resolution.
func Placement(s transform.State, outputSize int) Rect {
	ratio := float64(outputSize) / float64(s.Viewport)
	canvasScale := s.FinalScale() * ratio
	w := float64(s.NaturalWidth) * canvasScale
	h := float64(s.NaturalHeight) * canvasScale
	center := float64(outputSize) / 2
	return Rect{
		X: center + s.OffsetX*ratio - w/2,
		Y: center + s.OffsetY*ratio - h/2,
		W: w,
		H: h,
	}
}

// Render produces the composed badge image. The photo is drawn first at
// its projected placement, the rasterized overlay second over the full
// surface; reversing that order would hide the photo. The transform
// state is read, never mutated, and any failure aborts the attempt with
// no partial output.
func (c *Compositor) Render(ctx context.Context, photo *source.Photo, s transform.State, overlayURI string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if photo == nil || photo.Image == nil {
		return nil, &source.LoadError{Source: "(none)", Err: errors.New("no photo loaded")}
	}

	out := c.cfg.OutputSize
	canvas := imaging.New(out, out, color.NRGBA{A: 0xff})

	pl := Placement(s, out)
	resized := imaging.Resize(photo.Image, int(math.Round(pl.W)), int(math.Round(pl.H)), imaging.Lanczos)
	canvas = imaging.Paste(canvas, resized, image.Pt(int(math.Round(pl.X)), int(math.Round(pl.Y))))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	badge, err := rasterizeOverlay(overlayURI, out)
	if err != nil {
		return nil, err
	}
	return imaging.Overlay(canvas, badge, image.Pt(0, 0), 1.0), nil
}
