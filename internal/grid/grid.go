/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package grid maps pointer positions on the surface to logical cells.
package grid

import (
	"math"

	"gopixelart/internal/domain"
)

// Grid owns the logical dimensions of the canvas.
type Grid struct {
	dims domain.Dimensions
}

// New returns a grid with the given dimensions; invalid values fall back to defaults.
func New(d domain.Dimensions) *Grid {
	g := &Grid{dims: domain.Dimensions{CellCount: domain.DefaultCellCount, CellPixelSize: domain.DefaultCellPixelSize}}
	g.Resize(d.CellCount, d.CellPixelSize)
	return g
}

// Resize reallocates the addressing scheme. Non-positive values leave the
// corresponding dimension unchanged, and a result larger than
// domain.MaxSurfaceSize is refused. It reports whether anything changed.
func (g *Grid) Resize(cellCount, cellPixelSize int) bool {
	next := g.dims
	if cellCount > 0 {
		next.CellCount = cellCount
	}
	if cellPixelSize > 0 {
		next.CellPixelSize = cellPixelSize
	}
	if !next.Fits() {
		return false
	}
	changed := next != g.dims
	g.dims = next
	return changed
}

// Dimensions returns the current dimensions.
func (g *Grid) Dimensions() domain.Dimensions { return g.dims }

// ToCell floors a pointer offset (relative to the surface origin) by the cell size.
// The result may be out of range; callers treat that as a no-op.
func (g *Grid) ToCell(px, py float64) domain.Cell {
	p := float64(g.dims.CellPixelSize)
	return domain.Cell{X: int(math.Floor(px / p)), Y: int(math.Floor(py / p))}
}

// Contains reports whether c lies on the grid.
func (g *Grid) Contains(c domain.Cell) bool { return g.dims.Contains(c) }
