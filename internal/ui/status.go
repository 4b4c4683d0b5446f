/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"slices"
	"strconv"

	"gopixelart/internal/domain"
	"gopixelart/internal/editor"
)

// GridChoices are the cell counts offered by the grid-size selector.
var GridChoices = []int{8, 16, 32, 64}

// Pixel size slider range.
const (
	MinPixelSize = 4
	MaxPixelSize = 32
)

// StatusLine summarizes the session for the status bar.
func StatusLine(s *editor.Session) string {
	d := s.Dimensions()
	return fmt.Sprintf("%dx%d @ %dpx | %s | %s | history %d/%d",
		d.CellCount, d.CellCount, d.CellPixelSize, s.Tool(), s.Color().Hex(), s.HistoryCursor()+1, s.HistoryLen())
}

func toolNames() []string {
	out := make([]string, 0, len(domain.Tools))
	for _, t := range domain.Tools {
		out = append(out, t.String())
	}
	return out
}

// gridChoiceLabels lists GridChoices plus current when a configured count
// is not one of them, so the selector can always show the active size.
func gridChoiceLabels(current int) []string {
	counts := append([]int(nil), GridChoices...)
	if current > 0 && !slices.Contains(counts, current) {
		counts = append(counts, current)
		slices.Sort(counts)
	}
	out := make([]string, 0, len(counts))
	for _, n := range counts {
		out = append(out, strconv.Itoa(n))
	}
	return out
}

// pixelRange widens the slider bounds to include current.
func pixelRange(current int) (lo, hi int) {
	lo, hi = MinPixelSize, MaxPixelSize
	if current > 0 && current < lo {
		lo = current
	}
	if current > hi {
		hi = current
	}
	return lo, hi
}
