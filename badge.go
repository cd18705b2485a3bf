// Package badge composes a personal photo with a decorative badge
// overlay into a single downloadable raster image.
//
// Interactive zoom/pan gestures are edited against a small square
// preview viewport; at export time the same crop geometry is re-derived
// at a larger output resolution, the photo is drawn, and the styled
// overlay is flattened to self-contained SVG, carried as a
// percent-encoded data URI and rasterized on top.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//		"os"
//
//		"github.com/techlahoma/badge"
//	)
//
//	func main() {
//		composer := badge.New()
//		if err := composer.Load(context.Background(), "photo.jpg"); err != nil {
//			log.Fatal(err)
//		}
//
//		composer.SetBadgeText("SPEAKER")
//		composer.Zoom(3)
//		composer.Press(150, 150)
//		composer.Drag(170, 140)
//		composer.Release()
//
//		name, data, err := composer.Export(context.Background())
//		if err != nil {
//			log.Fatal(err)
//		}
//		if err := os.WriteFile(name, data, 0o644); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of four main components:
//
// 1. Transform (pkg/transform): cover-fit, zoom, pan and offset clamping
// 2. Overlay (pkg/overlay): badge model, style inlining, data URI codec
// 3. Compositor (pkg/compose): geometry projection, rasterization, export
// 4. Source (pkg/source): photo loading from files, URLs and readers
//
// Gesture operators are synchronous value transformations over one
// TransformState; only loading and rendering suspend, and neither
// mutates the state, so a failed render leaves zoom/pan interactive and
// export retryable.
package badge

import (
	"context"
	"image"
	"io"
	"net/url"
	"time"

	"github.com/techlahoma/badge/internal/config"
	"github.com/techlahoma/badge/pkg/compose"
	"github.com/techlahoma/badge/pkg/overlay"
	"github.com/techlahoma/badge/pkg/source"
	"github.com/techlahoma/badge/pkg/transform"
)

// Version of the badge composer library
const Version = "1.0.0"

// Composer wires the photo provider, the transform state, the overlay
// host and the compositor behind one gesture-driven surface. It is
// meant to be driven from a single event stream and is not safe for
// concurrent mutation.
type Composer struct {
	cfg        *config.Config
	provider   *source.Provider
	compositor *compose.Compositor
	overlay    *overlay.Overlay

	photo *source.Photo
	state transform.State
	drag  transform.DragSession
}

// New creates a Composer with default configuration.
func New() *Composer {
	return NewWithConfig(config.Default())
}

// NewWithConfig creates a Composer with custom configuration.
func NewWithConfig(cfg *config.Config) *Composer {
	return &Composer{
		cfg:      cfg,
		provider: source.NewProviderWithTimeout(time.Duration(cfg.Source.HTTPTimeoutSeconds) * time.Second),
		compositor: compose.NewWithConfig(compose.Config{
			ViewportSize: cfg.Preview.ViewportSize,
			OutputSize:   cfg.Output.Size,
			Format:       cfg.Output.Format,
			Lossless:     cfg.Output.Lossless,
			Filename:     cfg.Output.Filename,
		}),
		overlay: overlay.New("", cfg.Theme.FillColor, cfg.Theme.AccentColor),
	}
}

// Load loads a photo from a file path or http(s) URL and resets the
// transform, discarding any prior pan/zoom. On failure the previously
// loaded photo and its transform remain intact.
func (c *Composer) Load(ctx context.Context, src string) error {
	photo, err := c.provider.Load(ctx, src)
	if err != nil {
		return err
	}
	return c.adopt(photo)
}

// LoadFromReader loads a photo from a reader; id labels the source in
// load errors.
func (c *Composer) LoadFromReader(r io.Reader, id string) error {
	photo, err := c.provider.LoadFromReader(r, id)
	if err != nil {
		return err
	}
	return c.adopt(photo)
}

func (c *Composer) adopt(photo *source.Photo) error {
	if err := source.Validate(photo, c.cfg.Source.MinImageSize); err != nil {
		return err
	}
	w, h := photo.Natural()
	state, err := transform.Reset(w, h, c.cfg.Preview.ViewportSize)
	if err != nil {
		return err
	}
	c.photo = photo
	c.state = state
	c.drag.Release()
	return nil
}

// SetBadgeText replaces the overlay text.
func (c *Composer) SetBadgeText(text string) {
	c.overlay.SetText(text)
}

// BadgeText returns the current overlay text.
func (c *Composer) BadgeText() string {
	return c.overlay.Text()
}

// SetColors replaces the overlay fill and accent colors.
func (c *Composer) SetColors(fill, accent string) {
	c.overlay.SetColors(fill, accent)
}

// Zoom applies the given number of discrete wheel ticks; negative
// counts zoom out. No-op until a photo is loaded.
func (c *Composer) Zoom(ticks int) {
	if c.photo == nil {
		return
	}
	direction := 1
	if ticks < 0 {
		direction = -1
		ticks = -ticks
	}
	for i := 0; i < ticks; i++ {
		c.state = transform.ApplyZoom(c.state, direction)
	}
}

// Wheel applies one wheel event by its delta sign.
func (c *Composer) Wheel(delta float64) {
	if c.photo == nil {
		return
	}
	c.state = transform.ApplyZoom(c.state, transform.ZoomDirection(delta))
}

// Press starts a drag at the given viewport position. Mouse and touch
// feed the same session.
func (c *Composer) Press(x, y float64) {
	c.drag.Press(x, y)
}

// Drag continues a drag, panning by the movement since the last
// position. Ignored while no drag is active.
func (c *Composer) Drag(x, y float64) {
	dx, dy, ok := c.drag.Move(x, y)
	if !ok || c.photo == nil {
		return
	}
	c.state = transform.ApplyPan(c.state, dx, dy)
}

// Release ends the current drag.
func (c *Composer) Release() {
	c.drag.Release()
}

// State returns a read-only snapshot of the current transform.
func (c *Composer) State() transform.State {
	return c.state
}

// Photo returns the currently loaded photo, or nil.
func (c *Composer) Photo() *source.Photo {
	return c.photo
}

// Render composes the badge at output resolution using the current
// transform and overlay state.
func (c *Composer) Render(ctx context.Context) (*image.NRGBA, error) {
	uri, err := c.overlayURI()
	if err != nil {
		return nil, err
	}
	return c.compositor.Render(ctx, c.photo, c.state, uri)
}

// Export renders and losslessly encodes the badge, returning the
// default filename and the encoded bytes.
func (c *Composer) Export(ctx context.Context) (string, []byte, error) {
	uri, err := c.overlayURI()
	if err != nil {
		return "", nil, err
	}
	return c.compositor.Export(ctx, c.photo, c.state, uri)
}

func (c *Composer) overlayURI() (string, error) {
	markup, err := c.overlay.Serialize()
	if err != nil {
		return "", err
	}
	return overlay.EncodeDataURI(markup), nil
}

// BadgeTextFromURL reads the badge query parameter from a share URL, a
// valid initialization source for the overlay text.
func BadgeTextFromURL(raw string) (string, bool) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	values := parsed.Query()
	if !values.Has("badge") {
		return "", false
	}
	return values.Get("badge"), true
}
