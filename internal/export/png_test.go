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
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"gopixelart/internal/domain"
	"gopixelart/internal/raster"
)

var red = domain.Color{R: 255, A: 255}

func sampleSurface() *raster.Surface {
	s := raster.New(domain.Dimensions{CellCount: 8, CellPixelSize: 10})
	s.PaintCell(domain.Cell{X: 0, Y: 0}, red)
	s.PaintCell(domain.Cell{X: 7, Y: 7}, domain.Black)
	s.PaintCell(domain.Cell{X: 3, Y: 5}, domain.MustHex("#0088ff"))
	return s
}

func TestRenderProducesUniformBlocks(t *testing.T) {
	s := sampleSurface()
	const scale = 4
	img := Render(s, scale)
	if img.Bounds().Dx() != 8*scale || img.Bounds().Dy() != 8*scale {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	for cy := 0; cy < 8; cy++ {
		for cx := 0; cx < 8; cx++ {
			want, _ := s.SampleCell(domain.Cell{X: cx, Y: cy})
			for y := cy * scale; y < (cy+1)*scale; y++ {
				for x := cx * scale; x < (cx+1)*scale; x++ {
					got := img.RGBAAt(x, y)
					if got.R != want.R || got.G != want.G || got.B != want.B || got.A != 255 {
						t.Fatalf("pixel %d,%d of block %d,%d = %v, want %v", x, y, cx, cy, got, want)
					}
				}
			}
		}
	}
}

func TestRenderHasNoGridLines(t *testing.T) {
	img := Render(sampleSurface(), 3)
	gl := toRGBA(domain.GridLine)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == gl {
				t.Fatalf("grid-line color leaked into export at %d,%d", x, y)
			}
		}
	}
}

func TestRenderKeepsPaintedGridLineColor(t *testing.T) {
	s := raster.New(domain.Dimensions{CellCount: 2, CellPixelSize: 4})
	s.PaintCell(domain.Cell{X: 1, Y: 0}, domain.GridLine)
	img := Render(s, 2)
	if img.RGBAAt(2, 0) != toRGBA(domain.GridLine) {
		t.Fatalf("a cell painted in the grid-line color must export in that color")
	}
	if img.RGBAAt(0, 0) != toRGBA(domain.White) {
		t.Fatalf("unpainted cell should be white")
	}
}

func TestFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := FileName(now, "png"); got != "pixel-art-1700000000123.png" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestWritePNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := WritePNG(sampleSurface(), dir, 4, time.Now())
	if err != nil {
		t.Fatalf("export png: %v", err)
	}
	if !regexp.MustCompile(`pixel-art-\d+\.png$`).MatchString(path) {
		t.Fatalf("unexpected file name %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 32) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	_, _, _, a := img.At(5, 5).RGBA()
	if a != 0xffff {
		t.Fatalf("export must be opaque")
	}
}

func TestEncodePNGDefaultScale(t *testing.T) {
	data, err := EncodePNG(sampleSurface(), 0)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 8*DefaultScale || cfg.Height != 8*DefaultScale {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestWritePDF(t *testing.T) {
	dir := t.TempDir()
	path, err := WritePDF(sampleSurface(), dir, time.Now(), PDFOptions{Scale: 8, Margin: 36, Title: "test"})
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF") {
		t.Fatalf("not a pdf")
	}
}

func TestBatchExportPrintPreset(t *testing.T) {
	dir := t.TempDir()
	paths, err := BatchExport(sampleSurface(), time.Now(), BatchOptions{Preset: PresetPrint, OutDir: dir})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(paths) != 2 || filepath.Ext(paths[0]) != ".png" || filepath.Ext(paths[1]) != ".pdf" {
		t.Fatalf("unexpected outputs %v", paths)
	}
	if _, err := BatchExport(sampleSurface(), time.Now(), BatchOptions{Formats: []string{"gif"}, OutDir: dir}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if PresetScale(PresetSprite) != 1 || PresetScale("") != DefaultScale {
		t.Fatalf("unexpected preset scales")
	}
}

func TestWritePNGSameMillisecondKeepsBoth(t *testing.T) {
	dir := t.TempDir()
	now := time.UnixMilli(1700000000123)
	var paths []string
	for i := 0; i < 3; i++ {
		p, err := WritePNG(sampleSurface(), dir, 1, now)
		if err != nil {
			t.Fatalf("export %d: %v", i, err)
		}
		paths = append(paths, filepath.Base(p))
	}
	want := []string{"pixel-art-1700000000123.png", "pixel-art-1700000000123-1.png", "pixel-art-1700000000123-2.png"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("%d files on disk, want 3", len(entries))
	}
}
