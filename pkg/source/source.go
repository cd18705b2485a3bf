// Package source supplies decoded photos to the composer from file
// paths, HTTP(S) URLs or readers, with a WebP fallback decoder.
package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"
)

// LoadError reports a photo that could not be fetched or decoded. It
// carries the offending source identifier so a failed load can be
// reported without losing the prior preview state.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load image %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Photo is a decoded source image.
type Photo struct {
	Image  image.Image
	Source string
}

// Natural returns the source pixel dimensions.
func (p *Photo) Natural() (w, h int) {
	b := p.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Provider loads photos for composition.
type Provider struct {
	client *http.Client
}

// NewProvider creates a provider with the default HTTP timeout.
func NewProvider() *Provider {
	return NewProviderWithTimeout(30 * time.Second)
}

// NewProviderWithTimeout creates a provider with a custom HTTP timeout
// for URL sources.
func NewProviderWithTimeout(timeout time.Duration) *Provider {
	return &Provider{
		client: &http.Client{Timeout: timeout},
	}
}

// Load loads a photo from either a file path or an http(s) URL.
func (p *Provider) Load(ctx context.Context, source string) (*Photo, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return p.LoadFromURL(ctx, source)
	}
	return p.LoadFromFile(source)
}

// LoadFromFile loads a photo from disk.
func (p *Provider) LoadFromFile(path string) (*Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	img, err := decodeBytes(data)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return &Photo{Image: img, Source: path}, nil
}

// LoadFromURL downloads and decodes a photo.
func (p *Provider) LoadFromURL(ctx context.Context, imageURL string) (*Photo, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return nil, &LoadError{Source: imageURL, Err: fmt.Errorf("invalid URL: %w", err)}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &LoadError{Source: imageURL, Err: fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, &LoadError{Source: imageURL, Err: err}
	}
	req.Header.Set("User-Agent", "Badge-Composer/1.0 (+https://github.com/techlahoma/badge)")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoadError{Source: imageURL, Err: fmt.Errorf("HTTP %d %s", resp.StatusCode, resp.Status)}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, &LoadError{Source: imageURL, Err: fmt.Errorf("not an image (Content-Type: %s)", contentType)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: imageURL, Err: err}
	}
	img, err := decodeBytes(data)
	if err != nil {
		return nil, &LoadError{Source: imageURL, Err: err}
	}
	return &Photo{Image: img, Source: imageURL}, nil
}

// LoadFromReader decodes a photo from a reader. The id labels the
// source in load errors.
func (p *Provider) LoadFromReader(r io.Reader, id string) (*Photo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Source: id, Err: err}
	}
	img, err := decodeBytes(data)
	if err != nil {
		return nil, &LoadError{Source: id, Err: err}
	}
	return &Photo{Image: img, Source: id}, nil
}

// Validate checks that a photo meets the minimum dimension requirement.
func Validate(photo *Photo, minSize int) error {
	w, h := photo.Natural()
	if w < minSize || h < minSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)", w, h, minSize)
	}
	return nil
}

// decodeBytes decodes with the registered stdlib decoders first, then
// falls back to the cgo WebP decoder for files the pure decoder
// rejects.
func decodeBytes(data []byte) (image.Image, error) {
	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("unknown or unsupported image format")
}
