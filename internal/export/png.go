/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"gopixelart/internal/domain"
)

// DefaultScale is the upscale factor used when none is configured.
const DefaultScale = 4

// Source is the read side of the raster surface used by exporters.
type Source interface {
	Dimensions() domain.Dimensions
	SampleCenter(c domain.Cell) (domain.Color, bool)
}

// Render builds the export bitmap: one scale x scale block per cell, colored
// from the middle of the cell so grid lines never reach the output.
// Upscaling is nearest-neighbour; blocks stay crisp and uniform.
func Render(src Source, scale int) *image.RGBA {
	if scale <= 0 {
		scale = DefaultScale
	}
	n := src.Dimensions().CellCount
	cells := image.NewRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			c, _ := src.SampleCenter(domain.Cell{X: x, Y: y})
			cells.SetRGBA(x, y, toRGBA(c))
		}
	}
	if scale == 1 {
		return cells
	}
	out := image.NewRGBA(image.Rect(0, 0, n*scale, n*scale))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), cells, cells.Bounds(), xdraw.Src, nil)
	return out
}

// EncodePNG renders and encodes the surface.
func EncodePNG(src Source, scale int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(src, scale)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns pixel-art-<unix millis>.<ext>.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("pixel-art-%d.%s", now.UnixMilli(), ext)
}

// WritePNG exports the surface into dir and returns the written path.
// An empty dir means the current working directory.
func WritePNG(src Source, dir string, scale int, now time.Time) (string, error) {
	data, err := EncodePNG(src, scale)
	if err != nil {
		return "", err
	}
	path, err := outPath(dir, FileName(now, "png"))
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write png: %w", err)
	}
	return path, nil
}

// outPath returns a path in dir that does not exist yet. Exports within the
// same millisecond get a -1, -2, ... suffix before the extension.
func outPath(dir, name string) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("ensure out dir: %w", err)
		}
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	candidate := name
	for n := 1; ; n++ {
		path := filepath.Join(dir, candidate)
		if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("check out path: %w", err)
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
