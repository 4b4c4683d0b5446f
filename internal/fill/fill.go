/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package fill implements the bucket tool: recoloring the 4-connected region
// of cells around a seed whose color is close to the seed's.
package fill

import "gopixelart/internal/domain"

// Surface is the cell-level view of the raster the fill operates on.
type Surface interface {
	Dimensions() domain.Dimensions
	SampleCell(c domain.Cell) (domain.Color, bool)
	PaintCell(c domain.Cell, col domain.Color)
}

// Options tunes region matching.
type Options struct {
	// Tolerance is the exclusive per-channel difference still considered the
	// same color. Zero or negative selects domain.DefaultTolerance.
	Tolerance int
}

// Fill recolors the region connected to seed and returns how many cells were
// painted. It is a no-op when the seed is off the grid or already has the
// replacement color.
//
// The target color is captured once before traversal. Painted cells enter the
// visited set before their neighbours are pushed, so later pops never compare
// against a recolored cell.
func Fill(s Surface, seed domain.Cell, replacement domain.Color, opt Options) int {
	dims := s.Dimensions()
	if !dims.Contains(seed) {
		return 0
	}
	target, _ := s.SampleCell(seed)
	if target.Equal(replacement) {
		return 0
	}
	tol := opt.Tolerance
	if tol <= 0 {
		tol = domain.DefaultTolerance
	}

	visited := make(map[domain.Cell]struct{})
	stack := []domain.Cell{seed}
	painted := 0
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[c]; seen {
			continue
		}
		if !dims.Contains(c) {
			continue
		}
		cur, _ := s.SampleCell(c)
		if !cur.Near(target, tol) {
			continue
		}
		visited[c] = struct{}{}
		s.PaintCell(c, replacement)
		painted++

		for _, n := range c.Neighbors4() {
			if _, seen := visited[n]; !seen {
				stack = append(stack, n)
			}
		}
	}
	return painted
}
