//go:build fyne && cgo

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
	"image/color"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gopixelart/internal/config"
	"gopixelart/internal/crash"
	"gopixelart/internal/domain"
	"gopixelart/internal/editor"
	"gopixelart/internal/export"
	applog "gopixelart/internal/log"
	"gopixelart/internal/version"
)

// Run starts the Fyne-based pixel editor window.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	started := time.Now()

	rescue := &crash.Rescue{Dir: cfg.Export.Dir}
	defer crash.Recover(rescue)

	fyneApp := app.NewWithID("gopixelart")
	w := fyneApp.NewWindow("Go Pixel Art")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 700)
	if winW < 640 {
		winW = 640
	}
	if winH < 480 {
		winH = 480
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	sess := editor.New(editor.OptionsFromConfig(cfg))
	rescue.Canvas = sess
	if hex := prefs.String("editor.color"); hex != "" {
		_ = sess.SetColorHex(hex)
	}

	status := widget.NewLabel(StatusLine(sess))
	pixels := NewPixelCanvas(sess)

	// Tool selector
	toolSelect := widget.NewSelect(toolNames(), func(v string) {
		if t, err := domain.ParseTool(v); err == nil {
			sess.SetTool(t)
		}
	})
	toolSelect.SetSelected(sess.Tool().String())

	// Color: hex entry, preview swatch, picker dialog, quick palette
	colorEntry := widget.NewEntry()
	colorEntry.SetText(sess.Color().Hex())
	colorEntry.OnSubmitted = func(v string) {
		if err := sess.SetColorHex(v); err != nil {
			dialog.ShowError(err, w)
			colorEntry.SetText(sess.Color().Hex())
		}
	}
	preview := canvas.NewRectangle(toRGBA(sess.Color()))
	preview.SetMinSize(fyne.NewSize(28, 28))
	preview.StrokeColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	preview.StrokeWidth = 1
	pickBtn := widget.NewButton("Pick…", func() {
		d := dialog.NewColorPicker("Color", "Choose the paint color", func(c color.Color) {
			sess.SetColor(fromColor(c))
		}, w)
		d.Advanced = true
		d.SetColor(toRGBA(sess.Color()))
		d.Show()
	})
	var swatches []fyne.CanvasObject
	for _, c := range domain.Palette {
		c := c
		swatches = append(swatches, newSwatch(c, func() { sess.SetColor(c) }))
	}
	palette := container.NewGridWithColumns(8, swatches...)

	// Grid size and pixel size
	gridSelect := widget.NewSelect(gridChoiceLabels(sess.Dimensions().CellCount), func(v string) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return
		}
		sess.OnResize(n, 0)
	})
	gridSelect.SetSelected(strconv.Itoa(sess.Dimensions().CellCount))
	pixelLabel := widget.NewLabel(fmt.Sprintf("%dpx", sess.Dimensions().CellPixelSize))
	lo, hi := pixelRange(sess.Dimensions().CellPixelSize)
	pixelSlider := widget.NewSlider(float64(lo), float64(hi))
	pixelSlider.Step = 1
	pixelSlider.SetValue(float64(sess.Dimensions().CellPixelSize))
	pixelSlider.OnChanged = func(v float64) { pixelLabel.SetText(fmt.Sprintf("%dpx", int(v))) }
	pixelSlider.OnChangeEnded = func(v float64) { sess.OnResize(0, int(v)) }

	showExport := func(title string, path string, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		dialog.ShowInformation(title, "Saved to "+path, w)
	}
	exportPNG := func() {
		path, err := sess.OnExport()
		showExport("Export PNG", path, err)
	}
	exportPDF := func() {
		path, err := sess.OnExportPDF()
		showExport("Export PDF", path, err)
	}
	clearBtn := widget.NewButton("Clear", sess.OnClear)
	undoBtn := widget.NewButton("Undo", sess.OnUndo)
	downloadBtn := widget.NewButton("Download PNG", exportPNG)

	sess.OnChange(func(c editor.Change) {
		if c.Has(editor.ChangedSurface) || c.Has(editor.ChangedDimensions) {
			pixels.Refresh()
		}
		if c.Has(editor.ChangedDimensions) {
			gridSelect.SetSelected(strconv.Itoa(sess.Dimensions().CellCount))
		}
		if c.Has(editor.ChangedTool) {
			toolSelect.SetSelected(sess.Tool().String())
		}
		if c.Has(editor.ChangedColor) {
			colorEntry.SetText(sess.Color().Hex())
			preview.FillColor = toRGBA(sess.Color())
			preview.Refresh()
		}
		status.SetText(StatusLine(sess))
	})

	// Keyboard: single letters when no entry has focus, plus Ctrl+Z anywhere
	w.Canvas().SetOnTypedRune(func(r rune) { sess.OnKey(string(r), false) })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		sess.OnKey("z", true)
	})

	// Menus
	pngItem := fyne.NewMenuItem("Export PNG", exportPNG)
	pngItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	pdfItem := fyne.NewMenuItem("Export PDF Handout", exportPDF)
	presetItem := fyne.NewMenuItem("Export Preset…", func() {
		sel := widget.NewSelect([]string{string(export.PresetWeb), string(export.PresetPrint), string(export.PresetSprite)}, nil)
		sel.SetSelected(cfg.Export.Preset)
		dialog.NewCustomConfirm("Export Preset", "Export", "Cancel", sel, func(ok bool) {
			if !ok || sel.Selected == "" {
				return
			}
			paths, err := sess.OnExportPreset(export.PresetName(sel.Selected))
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			dialog.ShowInformation("Export Preset", "Saved:\n"+strings.Join(paths, "\n"), w)
		}, w).Show()
	})
	fileMenu := fyne.NewMenu("File", pngItem, pdfItem, presetItem)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", sess.OnUndo),
		fyne.NewMenuItem("Clear Canvas", sess.OnClear),
	)
	aboutItem := fyne.NewMenuItem("About Go Pixel Art", func() {
		l.Info("menu: about")
		exe, _ := os.Executable()
		info := fmt.Sprintf("Go Pixel Art\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe)
		dialog.ShowInformation("About", info, w)
	})
	shortcutsItem := fyne.NewMenuItem("Shortcuts", func() {
		dialog.ShowInformation("Shortcuts", "D draw\nE erase\nF fill\nI eyedropper\nC clear\nZ / Ctrl+Z undo", w)
	})
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, fyne.NewMenu("Help", shortcutsItem, aboutItem)))

	toolbar := container.NewVBox(
		widget.NewLabelWithStyle("Tool", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		toolSelect,
		widget.NewLabelWithStyle("Color", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, preview, pickBtn, colorEntry),
		palette,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Grid", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		gridSelect,
		container.NewBorder(nil, nil, nil, pixelLabel, pixelSlider),
		widget.NewSeparator(),
		container.NewGridWithColumns(2, clearBtn, undoBtn),
		downloadBtn,
	)
	root := container.NewBorder(nil, status, toolbar, nil, container.NewScroll(container.NewCenter(pixels)))
	w.SetContent(root)

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		prefs.SetString("editor.color", sess.Color().Hex())
		l.Debug("closing", slog.String("session", sess.ID()), slog.Duration("uptime", time.Since(started)))
		w.Close()
	})

	w.ShowAndRun()
	return nil
}

// PixelCanvas shows the session surface 1:1 and forwards mouse input to it.
// Pointer positions are widget-relative, which equals surface offsets because
// the image is laid out at the origin at its natural size.
type PixelCanvas struct {
	widget.BaseWidget
	sess *editor.Session
	img  *canvas.Image
}

var (
	_ desktop.Mouseable = (*PixelCanvas)(nil)
	_ desktop.Hoverable = (*PixelCanvas)(nil)
)

func NewPixelCanvas(s *editor.Session) *PixelCanvas {
	img := canvas.NewImageFromImage(s.Surface().Image())
	img.ScaleMode = canvas.ImageScalePixels
	img.FillMode = canvas.ImageFillStretch
	pc := &PixelCanvas{sess: s, img: img}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (p *PixelCanvas) surfaceSize() fyne.Size {
	n := float32(p.sess.Dimensions().SurfaceSize())
	return fyne.NewSize(n, n)
}

func (p *PixelCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pixelCanvasRenderer{pc: p, objects: []fyne.CanvasObject{p.img}}
}

// MinSize tracks the surface so resizes grow or shrink the widget.
func (p *PixelCanvas) MinSize() fyne.Size { return p.surfaceSize() }

func (p *PixelCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.sess.OnPointerDown(float64(e.Position.X), float64(e.Position.Y), p.sess.Tool(), p.sess.Color())
}

func (p *PixelCanvas) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.sess.OnPointerUp(p.sess.Tool())
}

func (p *PixelCanvas) MouseIn(*desktop.MouseEvent) {}

func (p *PixelCanvas) MouseMoved(e *desktop.MouseEvent) {
	if !p.sess.Drawing() {
		return
	}
	p.sess.OnPointerMove(float64(e.Position.X), float64(e.Position.Y), p.sess.Tool(), p.sess.Color())
}

func (p *PixelCanvas) MouseOut() { p.sess.OnPointerLeave() }

type pixelCanvasRenderer struct {
	pc      *PixelCanvas
	objects []fyne.CanvasObject
}

func (r *pixelCanvasRenderer) Destroy()                     {}
func (r *pixelCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pixelCanvasRenderer) MinSize() fyne.Size           { return r.pc.surfaceSize() }

func (r *pixelCanvasRenderer) Layout(fyne.Size) {
	sz := r.pc.surfaceSize()
	r.pc.img.Move(fyne.NewPos(0, 0))
	r.pc.img.Resize(sz)
}

// Refresh rebinds the image because a resize replaces the surface.
func (r *pixelCanvasRenderer) Refresh() {
	r.pc.img.Image = r.pc.sess.Surface().Image()
	r.Layout(r.pc.Size())
	canvas.Refresh(r.pc.img)
}

// swatch is a tappable palette color.
type swatch struct {
	widget.BaseWidget
	c     domain.Color
	onTap func()
}

func newSwatch(c domain.Color, onTap func()) *swatch {
	s := &swatch{c: c, onTap: onTap}
	s.ExtendBaseWidget(s)
	return s
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	r := canvas.NewRectangle(toRGBA(s.c))
	r.StrokeColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	r.StrokeWidth = 1
	return widget.NewSimpleRenderer(r)
}

func (s *swatch) MinSize() fyne.Size { return fyne.NewSize(22, 22) }

func (s *swatch) Tapped(*fyne.PointEvent) {
	if s.onTap != nil {
		s.onTap()
	}
}

func toRGBA(c domain.Color) color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255} }

func fromColor(c color.Color) domain.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return domain.Color{R: n.R, G: n.G, B: n.B, A: 255}
}
