/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor holds the editing session: the grid, the raster surface and
// its history, plus the current tool and color. UI layers forward pointer,
// key and button events to a Session and redraw when it reports a change.
//
// A Session is not safe for concurrent use; callers serialize events.
package editor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gopixelart/internal/config"
	"gopixelart/internal/domain"
	"gopixelart/internal/export"
	"gopixelart/internal/fill"
	"gopixelart/internal/grid"
	applog "gopixelart/internal/log"
	"gopixelart/internal/raster"
	"gopixelart/internal/undo"
)

// Change flags what a listener should refresh.
type Change uint8

const (
	ChangedSurface Change = 1 << iota
	ChangedTool
	ChangedColor
	ChangedDimensions
)

func (c Change) Has(f Change) bool { return c&f != 0 }

// Options configures a new Session. Zero values fall back to defaults.
type Options struct {
	Dimensions      domain.Dimensions
	HistoryCapacity int
	HistoryMaxBytes int
	FillTolerance   int
	ExportDir       string
	ExportScale     int
	// Now is the clock used for snapshot stamps and export names.
	Now func() time.Time
}

// OptionsFromConfig maps the user configuration onto session options.
func OptionsFromConfig(cfg config.AppConfig) Options {
	return Options{
		Dimensions:      domain.Dimensions{CellCount: cfg.Canvas.CellCount, CellPixelSize: cfg.Canvas.CellPixelSize},
		HistoryCapacity: cfg.Editor.HistoryCapacity,
		HistoryMaxBytes: cfg.Editor.HistoryMaxBytes,
		FillTolerance:   cfg.Editor.FillTolerance,
		ExportDir:       cfg.Export.Dir,
		ExportScale:     cfg.Export.Scale,
	}
}

type Session struct {
	id   string
	ctx  context.Context
	log  *slog.Logger
	opts Options

	grid    *grid.Grid
	surface *raster.Surface
	history *undo.History

	tool  domain.Tool
	color domain.Color

	drawing bool
	gesture domain.Tool

	listeners []func(Change)
}

// New creates a session with a blank surface and a one-entry history.
func New(opts Options) *Session {
	if opts.FillTolerance <= 0 {
		opts.FillTolerance = domain.DefaultTolerance
	}
	if opts.ExportScale <= 0 {
		opts.ExportScale = export.DefaultScale
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	id := uuid.NewString()
	s := &Session{
		id:      id,
		ctx:     applog.ContextWithSession(context.Background(), id),
		log:     applog.WithComponent("editor"),
		opts:    opts,
		grid:    grid.New(opts.Dimensions),
		history: undo.NewHistory(undo.Config{Capacity: opts.HistoryCapacity, MaxBytes: opts.HistoryMaxBytes}),
		tool:    domain.ToolDraw,
		color:   domain.Black,
	}
	s.surface = raster.New(s.grid.Dimensions())
	s.resetHistory()
	s.log.DebugContext(s.ctx, "session started", slog.String("dims", dimsString(s.grid.Dimensions())))
	return s
}

func (s *Session) ID() string { return s.id }
func (s *Session) Dimensions() domain.Dimensions { return s.grid.Dimensions() }
func (s *Session) Surface() *raster.Surface { return s.surface }
func (s *Session) Tool() domain.Tool { return s.tool }
func (s *Session) Color() domain.Color { return s.color }
func (s *Session) Drawing() bool { return s.drawing }
func (s *Session) HistoryLen() int { return s.history.Len() }
func (s *Session) HistoryCursor() int { return s.history.Cursor() }
func (s *Session) CellAt(px, py float64) domain.Cell { return s.grid.ToCell(px, py) }

// OnChange registers fn to be called after every state change.
func (s *Session) OnChange(fn func(Change)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

func (s *Session) notify(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}

// SetTool selects the tool used by callers that forward Tool() with pointer events.
func (s *Session) SetTool(t domain.Tool) {
	if t == s.tool {
		return
	}
	s.tool = t
	s.notify(ChangedTool)
}

func (s *Session) SetColor(c domain.Color) {
	c.A = 255
	if c == s.color {
		return
	}
	s.color = c
	s.notify(ChangedColor)
}

// SetColorHex accepts #rrggbb or #rgb.
func (s *Session) SetColorHex(hex string) error {
	c, err := domain.ParseHex(hex)
	if err != nil {
		return err
	}
	s.SetColor(c)
	return nil
}

// OnPointerDown starts a gesture at surface offset (px, py).
// Fill acts immediately and records one snapshot if any cell changed.
// Eyedropper picks the cell color and switches back to draw.
// Draw and erase paint the cell; their snapshot is taken on pointer-up.
func (s *Session) OnPointerDown(px, py float64, tool domain.Tool, color domain.Color) {
	s.drawing = true
	s.gesture = tool
	color.A = 255
	cell := s.grid.ToCell(px, py)

	switch tool {
	case domain.ToolFill:
		n := fill.Fill(s.surface, cell, color, fill.Options{Tolerance: s.opts.FillTolerance})
		if n > 0 {
			s.log.DebugContext(s.ctx, "fill", slog.String("seed", cell.String()), slog.Int("cells", n))
			s.commit()
			s.notify(ChangedSurface)
		}
	case domain.ToolEyedropper:
		s.pick(cell)
	default:
		if s.paint(cell, tool, color) {
			s.notify(ChangedSurface)
		}
	}
}

// OnPointerMove continues a draw or erase gesture. Other tools ignore drags.
func (s *Session) OnPointerMove(px, py float64, tool domain.Tool, color domain.Color) {
	if !s.drawing || !tool.Paints() || !s.gesture.Paints() {
		return
	}
	color.A = 255
	if s.paint(s.grid.ToCell(px, py), tool, color) {
		s.notify(ChangedSurface)
	}
}

// OnPointerUp ends the gesture. A draw or erase gesture records exactly one
// snapshot, whether or not any of its cells were in range.
func (s *Session) OnPointerUp(tool domain.Tool) {
	if s.drawing && tool.Paints() && s.gesture.Paints() {
		s.commit()
	}
	s.drawing = false
}

// OnPointerLeave ends the active gesture as if the pointer was released.
func (s *Session) OnPointerLeave() {
	s.OnPointerUp(s.gesture)
}

// OnResize recreates the surface at the new dimensions and resets history to
// the blank baseline. Non-positive values keep the current value; nothing
// happens when the dimensions do not change.
func (s *Session) OnResize(cellCount, cellPixelSize int) {
	if !s.grid.Resize(cellCount, cellPixelSize) {
		return
	}
	s.drawing = false
	s.surface = raster.New(s.grid.Dimensions())
	s.resetHistory()
	s.log.InfoContext(s.ctx, "resized", slog.String("dims", dimsString(s.grid.Dimensions())))
	s.notify(ChangedDimensions | ChangedSurface)
}

// OnClear whitens every cell and records a snapshot.
func (s *Session) OnClear() {
	s.surface.Clear()
	s.commit()
	s.notify(ChangedSurface)
}

// OnUndo restores the previous snapshot. It is a no-op at the oldest state.
// The cursor only moves once the snapshot has been restored.
func (s *Session) OnUndo() {
	prev, ok := s.history.At(s.history.Cursor() - 1)
	if !ok {
		return
	}
	if err := s.surface.LoadFrom(prev.Blob); err != nil {
		s.log.ErrorContext(s.ctx, "undo restore failed", slog.Any("err", err))
		return
	}
	s.history.Undo()
	s.notify(ChangedSurface)
}

// OnExport writes pixel-art-<millis>.png into the configured directory.
func (s *Session) OnExport() (string, error) {
	l := applog.WithOperation(s.log, "export")
	path, err := export.WritePNG(s.surface, s.opts.ExportDir, s.opts.ExportScale, s.opts.Now())
	if err != nil {
		l.ErrorContext(s.ctx, "png export failed", slog.Any("err", err))
		return "", err
	}
	l.InfoContext(s.ctx, "png exported", slog.String("path", path))
	return path, nil
}

// OnExportPDF writes a one-page PDF handout of the export bitmap.
func (s *Session) OnExportPDF() (string, error) {
	l := applog.WithOperation(s.log, "export")
	opts := export.BatchOptions{Formats: []string{"pdf"}, Scale: s.opts.ExportScale, OutDir: s.opts.ExportDir}
	paths, err := export.BatchExport(s.surface, s.opts.Now(), opts)
	if err != nil {
		l.ErrorContext(s.ctx, "pdf export failed", slog.Any("err", err))
		return "", err
	}
	l.InfoContext(s.ctx, "pdf exported", slog.String("path", paths[0]))
	return paths[0], nil
}

// OnExportPreset runs a named export preset and returns every written file.
func (s *Session) OnExportPreset(p export.PresetName) ([]string, error) {
	paths, err := export.BatchExport(s.surface, s.opts.Now(), export.BatchOptions{Preset: p, OutDir: s.opts.ExportDir})
	if err != nil {
		s.log.ErrorContext(s.ctx, "preset export failed", slog.String("preset", string(p)), slog.Any("err", err))
		return paths, err
	}
	return paths, nil
}

// OnKey handles the editor shortcuts and reports whether key was consumed:
// d, e, f, i select tools; c clears; z or ctrl+z undoes.
func (s *Session) OnKey(key string, ctrl bool) bool {
	k := strings.ToLower(key)
	if ctrl {
		if k == "z" {
			s.OnUndo()
			return true
		}
		return false
	}
	switch k {
	case "d":
		s.SetTool(domain.ToolDraw)
	case "e":
		s.SetTool(domain.ToolErase)
	case "f":
		s.SetTool(domain.ToolFill)
	case "i":
		s.SetTool(domain.ToolEyedropper)
	case "c":
		s.OnClear()
	case "z":
		s.OnUndo()
	default:
		return false
	}
	return true
}

func (s *Session) paint(cell domain.Cell, tool domain.Tool, color domain.Color) bool {
	if !s.grid.Contains(cell) {
		return false
	}
	if tool == domain.ToolErase {
		color = domain.White
	}
	s.surface.PaintCell(cell, color)
	return true
}

func (s *Session) pick(cell domain.Cell) {
	c, ok := s.surface.SampleCell(cell)
	if !ok {
		return
	}
	s.log.DebugContext(s.ctx, "picked", slog.String("cell", cell.String()), slog.String("color", c.Hex()))
	s.SetColor(c)
	s.SetTool(domain.ToolDraw)
}

func (s *Session) commit() {
	blob, err := s.surface.Snapshot()
	if err != nil {
		s.log.ErrorContext(s.ctx, "snapshot failed", slog.Any("err", err))
		return
	}
	s.history.Push(undo.Snapshot{Blob: blob, TS: s.opts.Now()})
}

func (s *Session) resetHistory() {
	blob, err := s.surface.Snapshot()
	if err != nil {
		s.log.ErrorContext(s.ctx, "baseline snapshot failed", slog.Any("err", err))
		return
	}
	s.history.Reset(undo.Snapshot{Blob: blob, TS: s.opts.Now()})
}

func dimsString(d domain.Dimensions) string {
	return config.CanvasConfig{CellCount: d.CellCount, CellPixelSize: d.CellPixelSize}.String()
}

// Snapshot serializes the current surface. It lets a Session stand in for the
// canvas when the crash handler saves a rescue image.
func (s *Session) Snapshot() ([]byte, error) { return s.surface.Snapshot() }
