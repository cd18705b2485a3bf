package compose

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"strings"

	"github.com/chai2010/webp"

	"github.com/techlahoma/badge/pkg/source"
	"github.com/techlahoma/badge/pkg/transform"
)

// Export renders the badge and encodes it losslessly, returning the
// default filename alongside the bytes. A failed export leaves no
// partial artifact and can simply be retried.
func (c *Compositor) Export(ctx context.Context, photo *source.Photo, s transform.State, overlayURI string) (string, []byte, error) {
	img, err := c.Render(ctx, photo, s, overlayURI)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	switch strings.ToLower(c.cfg.Format) {
	case "webp":
		opts := &webp.Options{Lossless: c.cfg.Lossless, Quality: 100}
		if err := webp.Encode(&buf, img, opts); err != nil {
			return "", nil, fmt.Errorf("failed to encode webp: %w", err)
		}
	default: // png
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return "", nil, fmt.Errorf("failed to encode png: %w", err)
		}
	}
	return c.exportFilename(), buf.Bytes(), nil
}

// exportFilename keeps the configured filename's extension in step with
// the configured format.
func (c *Compositor) exportFilename() string {
	name := c.cfg.Filename
	if name == "" {
		name = "badge.png"
	}
	if strings.EqualFold(c.cfg.Format, "webp") && strings.HasSuffix(name, ".png") {
		name = strings.TrimSuffix(name, ".png") + ".webp"
	}
	return name
}
