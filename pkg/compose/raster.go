package compose

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/techlahoma/badge/pkg/overlay"
)

// rasterizeOverlay decodes the overlay data URI and rasterizes it onto
// a transparent square of the given side. Shapes go through the SVG
// path rasterizer; the text element is drawn separately since path
// rasterizers do not handle SVG text.
func rasterizeOverlay(uri string, size int) (image.Image, error) {
	data, err := overlay.DecodeDataURI(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOverlayRender, err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		return nil, fmt.Errorf("%w: markup has no svg root", ErrOverlayRender)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOverlayRender, err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)

	if err := drawBadgeText(dst, data, size); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOverlayRender, err)
	}
	return dst, nil
}

// textNode is the badge text element as parsed from serialized markup.
type textNode struct {
	X        float64
	Y        float64
	FontSize float64
	Fill     string
	Anchor   string
	Content  string
}

// drawBadgeText parses the text element out of the overlay markup and
// draws it with the Go bold face, scaled from the overlay design space
// to the output surface.
func drawBadgeText(dst *image.RGBA, markup []byte, size int) error {
	node, err := parseTextNode(markup)
	if err != nil {
		return err
	}
	if node == nil || node.Content == "" {
		return nil
	}

	scale := float64(size) / float64(overlay.ViewBox)
	face, err := badgeFace(node.FontSize * scale)
	if err != nil {
		return err
	}
	defer face.Close()

	fill, err := parseHexColor(node.Fill)
	if err != nil {
		return err
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fill),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(node.X * scale * 64),
			Y: fixed.Int26_6(node.Y * scale * 64),
		},
	}
	adv := d.MeasureString(node.Content)
	switch node.Anchor {
	case "middle":
		d.Dot.X -= adv / 2
	case "end":
		d.Dot.X -= adv
	}
	d.DrawString(node.Content)
	return nil
}

// parseTextNode finds the first text element in the markup. Returns nil
// when the markup carries no text element.
func parseTextNode(markup []byte) (*textNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(markup))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid overlay markup: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "text" {
			continue
		}

		node := &textNode{FontSize: 16, Fill: "#000000", Anchor: "start"}
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "x":
				node.X, err = strconv.ParseFloat(attr.Value, 64)
			case "y":
				node.Y, err = strconv.ParseFloat(attr.Value, 64)
			case "font-size":
				node.FontSize, err = strconv.ParseFloat(strings.TrimSuffix(attr.Value, "px"), 64)
			case "fill":
				node.Fill = attr.Value
			case "text-anchor":
				node.Anchor = attr.Value
			}
			if err != nil {
				return nil, fmt.Errorf("invalid %s attribute %q: %w", attr.Name.Local, attr.Value, err)
			}
		}

		var content strings.Builder
		for {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid overlay markup: %w", err)
			}
			if char, ok := tok.(xml.CharData); ok {
				content.Write(char)
			}
			if _, ok := tok.(xml.EndElement); ok {
				break
			}
		}
		node.Content = content.String()
		return node, nil
	}
}

var (
	badgeFontOnce sync.Once
	badgeFont     *opentype.Font
	badgeFontErr  error
)

// badgeFace returns a Go bold face at the given pixel size.
func badgeFace(size float64) (font.Face, error) {
	badgeFontOnce.Do(func() {
		badgeFont, badgeFontErr = opentype.Parse(gobold.TTF)
	})
	if badgeFontErr != nil {
		return nil, badgeFontErr
	}
	return opentype.NewFace(badgeFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// parseHexColor parses #rgb and #rrggbb CSS color values.
func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("unsupported color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("unsupported color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
