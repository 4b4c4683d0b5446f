/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	return p
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.CellCount != 32 || cfg.Canvas.CellPixelSize != 16 {
		t.Fatalf("unexpected canvas defaults: %+v", cfg.Canvas)
	}
	if cfg.Editor.HistoryCapacity != 50 || cfg.Editor.FillTolerance != 5 {
		t.Fatalf("unexpected editor defaults: %+v", cfg.Editor)
	}
	if cfg.Export.Scale != 4 {
		t.Fatalf("Export.Scale = %d, want 4", cfg.Export.Scale)
	}
}

func TestSaveThenLoad(t *testing.T) {
	p := isolate(t)
	cfg := Defaults()
	cfg.Canvas.CellCount = 64
	cfg.Canvas.CellPixelSize = 8
	cfg.Export.Dir = "/tmp/out"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Canvas.CellCount != 64 || got.Canvas.CellPixelSize != 8 || got.Export.Dir != "/tmp/out" {
		t.Fatalf("round trip lost values: %+v", got)
	}
}

func TestMalformedFileIsIgnored(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("canvas: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.CellCount != 32 {
		t.Fatalf("malformed file should fall back to defaults, got %+v", cfg.Canvas)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("editor:\n  fill_tolerance: 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, _ := Load()
	if cfg.Editor.FillTolerance != 12 {
		t.Fatalf("FillTolerance = %d, want 12", cfg.Editor.FillTolerance)
	}
	if cfg.Editor.HistoryCapacity != 50 || cfg.Canvas.CellCount != 32 {
		t.Fatalf("unset fields must keep defaults: %+v", cfg)
	}
}

func TestEnvOverridesCanvas(t *testing.T) {
	isolate(t)
	t.Setenv(EnvCellCount, "16")
	t.Setenv(EnvCellPixelSize, "24")
	t.Setenv(EnvHistoryCapacity, "abc") // ignored
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.CellCount != 16 || cfg.Canvas.CellPixelSize != 24 {
		t.Fatalf("env override not applied: %+v", cfg.Canvas)
	}
	if cfg.Editor.HistoryCapacity != 50 {
		t.Fatalf("invalid env must be ignored, got %d", cfg.Editor.HistoryCapacity)
	}
	if env, ok := EnvOverrideFor("canvas.cell_count"); !ok || env != EnvCellCount {
		t.Fatalf("EnvOverrideFor = %q,%v", env, ok)
	}
	if _, ok := EnvOverrideFor("editor.history_capacity"); !ok {
		t.Fatalf("set env var should be reported even when its value is rejected")
	}
	if _, ok := EnvOverrideFor("export.scale"); ok {
		t.Fatalf("export.scale is not overridden")
	}
}

func TestToleranceOutOfRangeFallsBack(t *testing.T) {
	isolate(t)
	t.Setenv(EnvFillTolerance, "999")
	cfg, _ := Load()
	if cfg.Editor.FillTolerance != 5 {
		t.Fatalf("FillTolerance = %d, want default 5", cfg.Editor.FillTolerance)
	}
}

func TestOversizeCanvasFallsBack(t *testing.T) {
	isolate(t)
	t.Setenv(EnvCellCount, "512")
	t.Setenv(EnvCellPixelSize, "64")
	cfg, _ := Load()
	if cfg.Canvas != Defaults().Canvas {
		t.Fatalf("oversize canvas kept: %+v", cfg.Canvas)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/pxa.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/pxa.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	o := dst.LogOptions()
	if o.Level != "debug" || !o.AddSource || o.File != "C:/tmp/pxa.log" {
		t.Fatalf("LogOptions mismatch: %#v", o)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/pxa.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/pxa.log" {
		t.Fatalf("env overrides not applied: %#v", cfg.Logging)
	}
}

func TestMarshalUsesSnakeCaseKeys(t *testing.T) {
	b, err := Marshal(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"cell_count:", "cell_pixel_size:", "history_capacity:", "fill_tolerance:"} {
		if !strings.Contains(string(b), k) {
			t.Fatalf("yaml missing %q:\n%s", k, b)
		}
	}
	if got := Defaults().Canvas.String(); got != "32x32 cells @ 16px" {
		t.Fatalf("Canvas.String() = %q", got)
	}
}
