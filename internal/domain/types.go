/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model shared by the grid, raster, fill,
// history and export packages.

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults for a fresh canvas.
const (
	DefaultCellCount     = 32
	DefaultCellPixelSize = 16
	DefaultTolerance     = 5

	// MaxSurfaceSize bounds the surface edge in pixels (64 MiB of RGBA).
	MaxSurfaceSize = 4096
)

// Dimensions describes the logical grid and the size of one cell on the surface.
type Dimensions struct {
	CellCount     int `json:"cellCount" yaml:"cell_count"`
	CellPixelSize int `json:"cellPixelSize" yaml:"cell_pixel_size"`
}

// SurfaceSize is the edge length of the square raster surface in pixels.
func (d Dimensions) SurfaceSize() int { return d.CellCount * d.CellPixelSize }

// Valid reports whether both dimensions are positive.
func (d Dimensions) Valid() bool { return d.CellCount > 0 && d.CellPixelSize > 0 }

// Fits reports whether d is valid and its surface stays within MaxSurfaceSize.
func (d Dimensions) Fits() bool { return d.Valid() && d.SurfaceSize() <= MaxSurfaceSize }

// Contains reports whether c addresses a cell of the grid.
func (d Dimensions) Contains(c Cell) bool {
	return c.X >= 0 && c.X < d.CellCount && c.Y >= 0 && c.Y < d.CellCount
}

// Cell addresses one logical grid unit.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbors4 returns the up, down, left and right neighbours of c.
// Results may lie outside the grid.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{c.X + 1, c.Y},
		{c.X - 1, c.Y},
		{c.X, c.Y + 1},
		{c.X, c.Y - 1},
	}
}

func (c Cell) String() string { return fmt.Sprintf("%d,%d", c.X, c.Y) }

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Black = Color{R: 0, G: 0, B: 0, A: 255}
	// GridLine is the light gray used for cell borders on the surface.
	GridLine = Color{R: 0xE0, G: 0xE0, B: 0xE0, A: 255}
)

// Equal is an exact match on the RGB channels.
func (c Color) Equal(o Color) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B
}

// Near reports whether every RGB channel differs by less than tol.
func (c Color) Near(o Color, tol int) bool {
	return absDiff(c.R, o.R) < tol && absDiff(c.G, o.G) < tol && absDiff(c.B, o.B) < tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Hex formats the color as lower-case #rrggbb; alpha is dropped.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// ParseHex accepts #rrggbb, #rgb, and the same forms without the leading '#'.
// Parsed colors are always opaque.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// MustHex is ParseHex for literals; it panics on malformed input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Palette is the quick color palette offered next to the color picker.
var Palette = []Color{
	MustHex("#000000"), MustHex("#FFFFFF"), MustHex("#FF0000"), MustHex("#00FF00"),
	MustHex("#0000FF"), MustHex("#FFFF00"), MustHex("#FF00FF"), MustHex("#00FFFF"),
	MustHex("#FF8800"), MustHex("#88FF00"), MustHex("#0088FF"), MustHex("#8800FF"),
	MustHex("#808080"), MustHex("#C0C0C0"), MustHex("#800000"), MustHex("#008000"),
}

// Tool selects what a pointer gesture does.
type Tool int

const (
	ToolDraw Tool = iota
	ToolErase
	ToolFill
	ToolEyedropper
)

// Tools lists every tool in selector order.
var Tools = []Tool{ToolDraw, ToolErase, ToolFill, ToolEyedropper}

func (t Tool) String() string {
	switch t {
	case ToolDraw:
		return "draw"
	case ToolErase:
		return "erase"
	case ToolFill:
		return "fill"
	case ToolEyedropper:
		return "eyedropper"
	default:
		return "tool(" + strconv.Itoa(int(t)) + ")"
	}
}

// Paints reports whether the tool paints cells while dragging.
func (t Tool) Paints() bool { return t == ToolDraw || t == ToolErase }

// ParseTool maps a tool name (case-insensitive) to a Tool.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draw", "pen", "pencil":
		return ToolDraw, nil
	case "erase", "eraser":
		return ToolErase, nil
	case "fill", "bucket":
		return ToolFill, nil
	case "eyedropper", "picker", "pick":
		return ToolEyedropper, nil
	}
	return ToolDraw, fmt.Errorf("unknown tool %q", s)
}
