/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"strings"
)

// Script is a headless edit session: an optional canvas size followed by
// steps replayed in order against an editor session.
//
// Positions are cell coordinates; the pointer lands on the cell center.
type Script struct {
	Version int     `json:"version,omitempty"`
	Canvas  *Canvas `json:"canvas,omitempty"`
	Steps   []Step  `json:"steps"`
}

type Canvas struct {
	CellCount     int `json:"cell_count,omitempty"`
	CellPixelSize int `json:"cell_pixel_size,omitempty"`
}

// Op names one session operation.
type Op string

const (
	OpResize Op = "resize"
	OpColor  Op = "color"
	OpTool   Op = "tool"
	OpDown   Op = "down"
	OpMove   Op = "move"
	OpUp     Op = "up"
	OpClick  Op = "click" // down + up with the current tool
	OpFill   Op = "fill"  // bucket at x,y without changing the selected tool
	OpClear  Op = "clear"
	OpUndo   Op = "undo"
	OpKey    Op = "key" // "z", "ctrl+z", "d", ...
	OpExport Op = "export"
)

// Step is one entry of Script.Steps. Which fields apply depends on Op.
type Step struct {
	Op            Op     `json:"op"`
	X             int    `json:"x,omitempty"`
	Y             int    `json:"y,omitempty"`
	CellCount     int    `json:"cell_count,omitempty"`
	CellPixelSize int    `json:"cell_pixel_size,omitempty"`
	Value         string `json:"value,omitempty"`
	Color         string `json:"color,omitempty"`
	Format        string `json:"format,omitempty"`
	Preset        string `json:"preset,omitempty"`
}

// ValidationError lists every schema violation of a script document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit script: %s", strings.Join(e.Problems, "; "))
}

// StepError wraps a failure of one step; Index is 0-based.
type StepError struct {
	Index int
	Op    Op
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
