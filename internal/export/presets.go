/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"strings"
	"time"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb    PresetName = "web"
	PresetPrint  PresetName = "print"
	PresetSprite PresetName = "sprite"
)

// BatchOptions controls a multi-format export of the current surface.
//
//   - Formats: allowed png, pdf; empty means preset defaults.
//   - Scale: when > 0 overrides the preset's scale.
//   - OutDir: directory for all outputs; created if missing.
type BatchOptions struct {
	Preset  PresetName
	Formats []string
	Scale   int
	OutDir  string
}

// BatchExport writes every requested format and returns the written paths.
func BatchExport(src Source, now time.Time, opt BatchOptions) ([]string, error) {
	if src == nil {
		return nil, fmt.Errorf("source is nil")
	}
	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	scale := opt.Scale
	if scale <= 0 {
		scale = PresetScale(opt.Preset)
	}

	var paths []string
	for _, f := range formats {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "png":
			p, err := WritePNG(src, opt.OutDir, scale, now)
			if err != nil {
				return paths, fmt.Errorf("png: %w", err)
			}
			paths = append(paths, p)
		case "pdf":
			n := src.Dimensions().CellCount
			p, err := WritePDF(src, opt.OutDir, now, PDFOptions{
				Scale:  scale,
				Margin: 36,
				Title:  fmt.Sprintf("%dx%d pixel art, %s", n, n, now.Format("2006-01-02")),
			})
			if err != nil {
				return paths, fmt.Errorf("pdf: %w", err)
			}
			paths = append(paths, p)
		default:
			return paths, fmt.Errorf("unknown format: %s", f)
		}
	}
	return paths, nil
}

// PresetScale is the upscale factor of a preset.
func PresetScale(p PresetName) int {
	switch p {
	case PresetPrint:
		return 16
	case PresetSprite:
		return 1
	default:
		return DefaultScale
	}
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetPrint:
		return []string{"png", "pdf"}
	default:
		return []string{"png"}
	}
}
