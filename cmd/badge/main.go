package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/techlahoma/badge"
	"github.com/techlahoma/badge/internal/config"
	"github.com/techlahoma/badge/internal/utils"
)

func main() {
	var in, outDir, text, fromURL, fill, accent string
	var format string
	var lossless bool
	var size, viewport, zoom int
	var pan string
	var cfgPath string

	flag.StringVar(&in, "in", "", "input photo path or URL (jpg/png/gif/webp)")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.StringVar(&text, "text", "", "badge text")
	flag.StringVar(&fromURL, "from-url", "", "share URL carrying a badge= query parameter")
	flag.StringVar(&fill, "fill", "", "badge fill color, e.g. #1e90ff")
	flag.StringVar(&accent, "accent", "", "badge accent color, e.g. #ffffff")

	flag.StringVar(&format, "format", "", "export format: png|webp")
	flag.BoolVar(&lossless, "lossless", true, "WebP lossless mode")
	flag.IntVar(&size, "size", 0, "export square side in px (0 = config default)")
	flag.IntVar(&viewport, "viewport", 0, "preview square side in px (0 = config default)")

	flag.IntVar(&zoom, "zoom", 0, "zoom ticks to apply (negative zooms out)")
	flag.StringVar(&pan, "pan", "", "pan offset as dx,dy in viewport px")

	flag.StringVar(&cfgPath, "config", "", "config file path (JSON)")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in photo.jpg|URL [-text TEXT] [-zoom N] [-pan dx,dy] [-out dir] [-format png|webp]", filepath.Base(os.Args[0]))
	}

	cfg := config.Default()
	if cfgPath == "" && utils.FileExists(config.GetConfigPath()) {
		cfgPath = config.GetConfigPath()
	}
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if format != "" {
		cfg.Output.Format = format
	}
	cfg.Output.Lossless = lossless
	if size > 0 {
		cfg.Output.Size = size
	}
	if viewport > 0 {
		cfg.Preview.ViewportSize = viewport
	}
	if fill != "" {
		cfg.Theme.FillColor = fill
	}
	if accent != "" {
		cfg.Theme.AccentColor = accent
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	composer := badge.NewWithConfig(cfg)
	ctx := context.Background()

	if !strings.HasPrefix(in, "http://") && !strings.HasPrefix(in, "https://") && !utils.IsImageFile(in) {
		log.Printf("warning: %s has no known image extension, trying anyway", in)
	}
	if err := composer.Load(ctx, in); err != nil {
		log.Fatal(err)
	}

	// Share URL seeds the text; an explicit -text wins.
	if fromURL != "" {
		if seeded, ok := badge.BadgeTextFromURL(fromURL); ok {
			composer.SetBadgeText(seeded)
		}
	}
	if text != "" {
		composer.SetBadgeText(text)
	}

	composer.Zoom(zoom)
	if pan != "" {
		dx, dy, err := parsePan(pan)
		if err != nil {
			log.Fatal(err)
		}
		composer.Press(0, 0)
		composer.Drag(dx, dy)
		composer.Release()
	}

	name, data, err := composer.Export(ctx)
	if err != nil {
		log.Fatal(err)
	}

	outPath := filepath.Join(outDir, utils.SanitizeFilename(name))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatal(err)
	}

	state := composer.State()
	log.Printf("wrote %s (%s, scale %.3f, offset %.1f,%.1f)",
		outPath, utils.FormatFileSize(int64(len(data))), state.Scale, state.OffsetX, state.OffsetY)
}

func parsePan(s string) (dx, dy float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid -pan %q (want dx,dy)", s)
	}
	dx, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -pan %q: %w", s, err)
	}
	dy, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid -pan %q: %w", s, err)
	}
	return dx, dy, nil
}
