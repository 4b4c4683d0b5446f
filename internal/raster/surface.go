/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package raster holds the pixel buffer behind the editable grid.
//
// Each cell occupies a CellPixelSize square block of the surface. The first
// row and column of every block are the grid-line border; the remainder is
// the cell interior, which is always one uniform color between edits, so any
// fixed interior pixel gives the color of the whole cell.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"gopixelart/internal/domain"
)

// Surface is the rendered grid.
type Surface struct {
	dims domain.Dimensions
	img  *image.RGBA
}

// New allocates a cleared surface for the given dimensions.
func New(d domain.Dimensions) *Surface {
	if !d.Valid() {
		d = domain.Dimensions{CellCount: domain.DefaultCellCount, CellPixelSize: domain.DefaultCellPixelSize}
	}
	size := d.SurfaceSize()
	s := &Surface{dims: d, img: image.NewRGBA(image.Rect(0, 0, size, size))}
	s.Clear()
	return s
}

// Dimensions returns the grid dimensions the surface was built for.
func (s *Surface) Dimensions() domain.Dimensions { return s.dims }

// Image exposes the backing buffer for display. Callers must not retain it
// across a resize; the session recreates the surface then.
func (s *Surface) Image() *image.RGBA { return s.img }

// border is the grid-line width. Cells smaller than two pixels have no room
// for an interior next to a line, so they are drawn without one.
func (s *Surface) border() int {
	if s.dims.CellPixelSize < 2 {
		return 0
	}
	return 1
}

// Clear fills the surface with the background color and redraws the grid.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(toRGBA(domain.White)), image.Point{}, draw.Src)
	s.drawGrid()
}

// PaintCell fills the interior of c and redraws its border. Out-of-range cells are ignored.
func (s *Surface) PaintCell(c domain.Cell, col domain.Color) {
	if !s.dims.Contains(c) {
		return
	}
	p := s.dims.CellPixelSize
	b := s.border()
	x0, y0 := c.X*p, c.Y*p
	fillRect(s.img, x0+b, y0+b, x0+p-1, y0+p-1, toRGBA(col))
	s.drawCellBorder(c)
}

// SampleCell reads the color of c from a fixed interior pixel.
func (s *Surface) SampleCell(c domain.Cell) (domain.Color, bool) {
	if !s.dims.Contains(c) {
		return domain.Color{}, false
	}
	p := s.dims.CellPixelSize
	b := s.border()
	return fromRGBA(s.img.RGBAAt(c.X*p+b, c.Y*p+b)), true
}

// SampleCenter reads the pixel in the middle of the cell block, away from
// the grid lines.
func (s *Surface) SampleCenter(c domain.Cell) (domain.Color, bool) {
	if !s.dims.Contains(c) {
		return domain.Color{}, false
	}
	p := s.dims.CellPixelSize
	return fromRGBA(s.img.RGBAAt(c.X*p+p/2, c.Y*p+p/2)), true
}

// Snapshot serializes the whole surface as a lossless PNG.
func (s *Surface) Snapshot() ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, s.img); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFrom replaces the surface content with a snapshot produced by Snapshot
// and redraws the grid lines. On a decode error the surface is left untouched.
func (s *Surface) LoadFrom(snapshot []byte) error {
	src, err := png.Decode(bytes.NewReader(snapshot))
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(toRGBA(domain.White)), image.Point{}, draw.Src)
	draw.Draw(s.img, s.img.Bounds(), src, src.Bounds().Min, draw.Src)
	s.drawGrid()
	return nil
}

func (s *Surface) drawGrid() {
	if s.border() == 0 {
		return
	}
	size := s.dims.SurfaceSize()
	p := s.dims.CellPixelSize
	gc := toRGBA(domain.GridLine)
	for i := 0; i < s.dims.CellCount; i++ {
		fillRect(s.img, i*p, 0, i*p, size-1, gc)
		fillRect(s.img, 0, i*p, size-1, i*p, gc)
	}
}

func (s *Surface) drawCellBorder(c domain.Cell) {
	if s.border() == 0 {
		return
	}
	p := s.dims.CellPixelSize
	x0, y0 := c.X*p, c.Y*p
	gc := toRGBA(domain.GridLine)
	fillRect(s.img, x0, y0, x0+p-1, y0, gc)
	fillRect(s.img, x0, y0, x0, y0+p-1, gc)
}

// fillRect paints the inclusive rectangle [x0,x1]x[y0,y1].
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func fromRGBA(c color.RGBA) domain.Color {
	return domain.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
