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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"gopixelart/internal/domain"
	applog "gopixelart/internal/log"
)

// CanvasConfig is the grid a new session starts with.
type CanvasConfig struct {
	CellCount     int `yaml:"cell_count"`
	CellPixelSize int `yaml:"cell_pixel_size"`
}

type EditorConfig struct {
	HistoryCapacity int `yaml:"history_capacity"`
	// HistoryMaxBytes caps snapshot memory; 0 disables the cap.
	HistoryMaxBytes int `yaml:"history_max_bytes"`
	// FillTolerance is the exclusive per-channel difference the bucket tool still treats as the same color.
	FillTolerance int `yaml:"fill_tolerance"`
}

type ExportConfig struct {
	Scale  int    `yaml:"scale"`
	Dir    string `yaml:"dir"`
	Preset string `yaml:"preset"` // "web" | "print" | "sprite"
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the YAML document stored per user. PXA_* environment
// variables override it at load time and are never written back.
// Unknown keys are ignored; ConfigVersion changes only on incompatible layouts.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Editor        EditorConfig  `yaml:"editor"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Canvas:        CanvasConfig{CellCount: 32, CellPixelSize: 16},
		Editor:        EditorConfig{HistoryCapacity: 50, HistoryMaxBytes: 0, FillTolerance: 5},
		Export:        ExportConfig{Scale: 4, Dir: "", Preset: "web"},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Environment overrides.
const (
	EnvConfigPath      = "PXA_CONFIG"
	EnvCellCount       = "PXA_CELL_COUNT"
	EnvCellPixelSize   = "PXA_CELL_PIXEL_SIZE"
	EnvHistoryCapacity = "PXA_HISTORY_CAPACITY"
	EnvFillTolerance   = "PXA_FILL_TOLERANCE"
	EnvExportScale     = "PXA_EXPORT_SCALE"
	EnvExportDir       = "PXA_EXPORT_DIR"

	EnvLogLevel  = "PXA_LOG_LEVEL"
	EnvLogFormat = "PXA_LOG_FORMAT"
	EnvLogSource = "PXA_LOG_SOURCE"
	EnvLogFile   = "PXA_LOG_FILE"
)

// ConfigPath returns the per-user config file path. PXA_CONFIG overrides it.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoPixelArt")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoPixelArt")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "gopixelart")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges environment overrides.
// A missing file is not an error; a malformed one is logged and ignored.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		} else {
			applog.WithComponent("config").Warn("ignoring malformed config", "path", path, "err", err)
		}
	}
	applyEnvOverrides(&cfg)
	normalize(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as YAML to path, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal renders cfg as YAML.
func Marshal(cfg AppConfig) ([]byte, error) { return yaml.Marshal(cfg) }

// mergeInto copies every field src sets over dst. Zero numbers and blank
// strings in src mean "not set"; logging.source always wins.
func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	for _, p := range []struct{ dst, src *int }{
		{&dst.Canvas.CellCount, &src.Canvas.CellCount},
		{&dst.Canvas.CellPixelSize, &src.Canvas.CellPixelSize},
		{&dst.Editor.HistoryCapacity, &src.Editor.HistoryCapacity},
		{&dst.Editor.HistoryMaxBytes, &src.Editor.HistoryMaxBytes},
		{&dst.Editor.FillTolerance, &src.Editor.FillTolerance},
		{&dst.Export.Scale, &src.Export.Scale},
	} {
		if *p.src > 0 {
			*p.dst = *p.src
		}
	}
	setStr(&dst.Export.Dir, src.Export.Dir, false)
	setStr(&dst.Export.Preset, src.Export.Preset, true)
	setStr(&dst.Logging.Level, src.Logging.Level, true)
	setStr(&dst.Logging.Format, src.Logging.Format, true)
	setStr(&dst.Logging.File, src.Logging.File, false)
	dst.Logging.Source = src.Logging.Source
}

func setStr(dst *string, v string, lower bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if lower {
		v = strings.ToLower(v)
	}
	*dst = v
}

func applyEnvOverrides(cfg *AppConfig) {
	envInt(EnvCellCount, &cfg.Canvas.CellCount)
	envInt(EnvCellPixelSize, &cfg.Canvas.CellPixelSize)
	envInt(EnvHistoryCapacity, &cfg.Editor.HistoryCapacity)
	envInt(EnvFillTolerance, &cfg.Editor.FillTolerance)
	envInt(EnvExportScale, &cfg.Export.Scale)
	setStr(&cfg.Export.Dir, os.Getenv(EnvExportDir), false)
	setStr(&cfg.Logging.Level, os.Getenv(EnvLogLevel), true)
	setStr(&cfg.Logging.Format, os.Getenv(EnvLogFormat), true)
	setStr(&cfg.Logging.File, os.Getenv(EnvLogFile), false)
	var src string
	if setStr(&src, os.Getenv(EnvLogSource), true); src != "" {
		cfg.Logging.Source = src == "1" || src == "true" || src == "on" || src == "yes"
	}
}

// normalize replaces out-of-range values with defaults.
func normalize(cfg *AppConfig) {
	def := Defaults()
	if cfg.Canvas.CellCount <= 0 {
		cfg.Canvas.CellCount = def.Canvas.CellCount
	}
	if cfg.Canvas.CellPixelSize <= 0 {
		cfg.Canvas.CellPixelSize = def.Canvas.CellPixelSize
	}
	if cfg.Canvas.CellCount*cfg.Canvas.CellPixelSize > domain.MaxSurfaceSize {
		cfg.Canvas = def.Canvas
	}
	if cfg.Editor.HistoryCapacity <= 0 {
		cfg.Editor.HistoryCapacity = def.Editor.HistoryCapacity
	}
	if cfg.Editor.FillTolerance <= 0 || cfg.Editor.FillTolerance > 256 {
		cfg.Editor.FillTolerance = def.Editor.FillTolerance
	}
	if cfg.Export.Scale <= 0 {
		cfg.Export.Scale = def.Export.Scale
	}
}

// EnvOverrideFor reports which PXA_* variable, if set, shadows the dotted YAML key.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"canvas.cell_count":       EnvCellCount,
		"canvas.cell_pixel_size":  EnvCellPixelSize,
		"editor.history_capacity": EnvHistoryCapacity,
		"editor.fill_tolerance":   EnvFillTolerance,
		"export.scale":            EnvExportScale,
		"export.dir":              EnvExportDir,
		"logging.level":           EnvLogLevel,
		"logging.format":          EnvLogFormat,
		"logging.source":          EnvLogSource,
		"logging.file":            EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// LogOptions converts the logging section for applog.Init.
func (c AppConfig) LogOptions() applog.Options {
	return applog.Options{Level: c.Logging.Level, Format: c.Logging.Format, AddSource: c.Logging.Source, File: c.Logging.File}
}

func (c CanvasConfig) String() string {
	return fmt.Sprintf("%dx%d cells @ %dpx", c.CellCount, c.CellCount, c.CellPixelSize)
}
