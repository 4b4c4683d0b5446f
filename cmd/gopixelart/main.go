/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopixelart/internal/config"
	"gopixelart/internal/crash"
	"gopixelart/internal/editor"
	applog "gopixelart/internal/log"
	"gopixelart/internal/script"
	"gopixelart/internal/ui"
	"gopixelart/internal/version"
)

func usage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Go Pixel Art")
	_, _ = fmt.Fprintf(w, "Version: %s\n", version.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  gopixelart version|-v|--version          Show version")
	_, _ = fmt.Fprintln(w, "  gopixelart ui                             Launch desktop editor (build with -tags fyne)")
	_, _ = fmt.Fprintln(w, "  gopixelart render <script.json> [outdir]  Replay an edit script headlessly and export")
	_, _ = fmt.Fprintln(w, "  gopixelart config                         Print the effective configuration")
	_, _ = fmt.Fprintln(w, "  gopixelart schema                         Print the edit script JSON schema")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "config:", err)
	}
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))

	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		_, _ = fmt.Fprintln(stdout, "Go Pixel Art")
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	case "ui":
		if err := ui.Run(cfg); err != nil {
			_, _ = fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		return 0
	case "render":
		if len(args) < 2 {
			_, _ = fmt.Fprintln(stdout, "render requires <script.json>")
			usage(stdout)
			return 2
		}
		outDir := cfg.Export.Dir
		if len(args) >= 3 {
			outDir = args[2]
		}
		paths, err := render(cfg, args[1], outDir)
		if err != nil {
			l.Error("render failed", slog.Any("err", err))
			_, _ = fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		for _, p := range paths {
			_, _ = fmt.Fprintln(stdout, p)
		}
		return 0
	case "config":
		b, err := config.Marshal(cfg)
		if err != nil {
			_, _ = fmt.Fprintln(stdout, "Error:", err)
			return 1
		}
		if p, err := config.ConfigPath(); err == nil {
			_, _ = fmt.Fprintf(stdout, "# %s\n", p)
		}
		_, _ = stdout.Write(b)
		return 0
	case "schema":
		_, _ = stdout.Write(script.Schema())
		return 0
	}
	usage(stdout)
	return 2
}

// render replays the script and returns the exported files. A script without
// export steps still produces one PNG.
func render(cfg config.AppConfig, path, outDir string) ([]string, error) {
	sc, err := script.ParseFile(path)
	if err != nil {
		return nil, err
	}
	opts, err := sc.Options(editor.OptionsFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if outDir != "" {
		abs, err := filepath.Abs(outDir)
		if err != nil {
			return nil, err
		}
		opts.ExportDir = abs
	}
	sess := editor.New(opts)
	defer crash.Recover(&crash.Rescue{Dir: opts.ExportDir, Canvas: sess})

	res, err := script.Replay(sess, sc)
	if err != nil {
		return res.Exports, err
	}
	if len(res.Exports) == 0 {
		p, err := sess.OnExport()
		if err != nil {
			return nil, err
		}
		res.Exports = append(res.Exports, p)
	}
	return res.Exports, nil
}
