/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"gopixelart/internal/domain"
	"gopixelart/internal/editor"
	"gopixelart/internal/export"
	applog "gopixelart/internal/log"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the JSON schema edit scripts are validated against.
func Schema() []byte { return schemaJSON }

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (Script, error) {
	res, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Script{}, fmt.Errorf("validate edit script: %w", err)
	}
	if !res.Valid() {
		ve := &ValidationError{}
		for _, e := range res.Errors() {
			ve.Problems = append(ve.Problems, e.String())
		}
		return Script{}, ve
	}
	var sc Script
	if err := json.Unmarshal(data, &sc); err != nil {
		return Script{}, fmt.Errorf("decode edit script: %w", err)
	}
	return sc, nil
}

// ParseFile reads and parses a script file.
func ParseFile(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read edit script: %w", err)
	}
	return Parse(data)
}

// Result summarizes a replay.
type Result struct {
	Steps   int
	Exports []string
}

// Options returns session options for sc layered over base. It fails when
// the resulting surface would exceed domain.MaxSurfaceSize.
func (sc Script) Options(base editor.Options) (editor.Options, error) {
	if sc.Canvas == nil {
		return base, nil
	}
	d := resized(base.Dimensions, sc.Canvas.CellCount, sc.Canvas.CellPixelSize)
	if !d.Fits() {
		return base, errTooLarge(d)
	}
	base.Dimensions = d
	return base, nil
}

// resized mirrors grid.Resize: non-positive values keep the current side,
// and unset base sides fall back to the defaults.
func resized(d domain.Dimensions, cellCount, cellPixelSize int) domain.Dimensions {
	if d.CellCount <= 0 {
		d.CellCount = domain.DefaultCellCount
	}
	if d.CellPixelSize <= 0 {
		d.CellPixelSize = domain.DefaultCellPixelSize
	}
	if cellCount > 0 {
		d.CellCount = cellCount
	}
	if cellPixelSize > 0 {
		d.CellPixelSize = cellPixelSize
	}
	return d
}

func errTooLarge(d domain.Dimensions) error {
	return fmt.Errorf("canvas %dx%d cells at %dpx is %dpx wide, limit is %dpx",
		d.CellCount, d.CellCount, d.CellPixelSize, d.SurfaceSize(), domain.MaxSurfaceSize)
}

// Replay runs every step against s and stops at the first failing one.
// Steps at off-grid cells are not failures; the session ignores them.
func Replay(s *editor.Session, sc Script) (Result, error) {
	l := applog.WithOperation(applog.WithComponent("script"), "replay")
	var res Result
	for i, st := range sc.Steps {
		paths, err := apply(s, st)
		if err != nil {
			l.Error("step failed", slog.Int("step", i), slog.String("op", string(st.Op)), slog.Any("err", err))
			return res, &StepError{Index: i, Op: st.Op, Err: err}
		}
		res.Exports = append(res.Exports, paths...)
		res.Steps++
	}
	l.Debug("replayed", slog.Int("steps", res.Steps), slog.Int("exports", len(res.Exports)))
	return res, nil
}

func center(s *editor.Session, x, y int) (float64, float64) {
	p := float64(s.Dimensions().CellPixelSize)
	return (float64(x) + 0.5) * p, (float64(y) + 0.5) * p
}

func apply(s *editor.Session, st Step) ([]string, error) {
	switch st.Op {
	case OpResize:
		if d := resized(s.Dimensions(), st.CellCount, st.CellPixelSize); !d.Fits() {
			return nil, errTooLarge(d)
		}
		s.OnResize(st.CellCount, st.CellPixelSize)
	case OpColor:
		return nil, s.SetColorHex(st.Value)
	case OpTool:
		t, err := domain.ParseTool(st.Value)
		if err != nil {
			return nil, err
		}
		s.SetTool(t)
	case OpDown:
		px, py := center(s, st.X, st.Y)
		s.OnPointerDown(px, py, s.Tool(), s.Color())
	case OpMove:
		px, py := center(s, st.X, st.Y)
		s.OnPointerMove(px, py, s.Tool(), s.Color())
	case OpUp:
		s.OnPointerUp(s.Tool())
	case OpClick:
		px, py := center(s, st.X, st.Y)
		s.OnPointerDown(px, py, s.Tool(), s.Color())
		s.OnPointerUp(s.Tool())
	case OpFill:
		c := s.Color()
		if st.Color != "" {
			var err error
			if c, err = domain.ParseHex(st.Color); err != nil {
				return nil, err
			}
		}
		px, py := center(s, st.X, st.Y)
		s.OnPointerDown(px, py, domain.ToolFill, c)
		s.OnPointerUp(domain.ToolFill)
	case OpClear:
		s.OnClear()
	case OpUndo:
		s.OnUndo()
	case OpKey:
		key, ctrl := parseKey(st.Value)
		if !s.OnKey(key, ctrl) {
			return nil, fmt.Errorf("unbound key %q", st.Value)
		}
	case OpExport:
		return exportStep(s, st)
	default:
		return nil, fmt.Errorf("unknown op %q", st.Op)
	}
	return nil, nil
}

func exportStep(s *editor.Session, st Step) ([]string, error) {
	if st.Preset != "" {
		return s.OnExportPreset(export.PresetName(st.Preset))
	}
	var (
		path string
		err  error
	)
	if strings.EqualFold(st.Format, "pdf") {
		path, err = s.OnExportPDF()
	} else {
		path, err = s.OnExport()
	}
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func parseKey(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if k, ok := strings.CutPrefix(v, "ctrl+"); ok {
		return k, true
	}
	return v, false
}
