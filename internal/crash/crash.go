/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns a panic at the process entry into a report file plus a
// rescue image of whatever was on the canvas.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "gopixelart/internal/log"
	"gopixelart/internal/version"
)

// exitFn is used to allow testing of Recover without terminating the test process.
var exitFn = os.Exit

// Snapshotter yields the serialized canvas. *raster.Surface satisfies it.
type Snapshotter interface {
	Snapshot() ([]byte, error)
}

// Rescue tells Recover where to write and what to save. Both fields are optional;
// an empty Dir means os.TempDir().
type Rescue struct {
	Dir    string
	Canvas Snapshotter
}

// Recover captures a panic, logs an error with stacktrace,
// writes an error report file, and saves the canvas as a PNG when one is attached.
//
// Usage: defer crash.Recover(rs)
func Recover(rs *Rescue) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		now := time.Now()
		reportPath, err := writeReport(rs, r, stack, now)
		if err != nil {
			l.Error("crash report write failed", slog.Any("err", err))
		}
		if rs != nil && rs.Canvas != nil {
			if path, err := writeRescue(rs, now); err != nil {
				l.Error("rescue image failed", slog.Any("err", err))
			} else {
				l.Info("rescue image written", slog.String("path", path))
			}
		}

		if _, err := fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath); err != nil {
			l.Error("failed to write crash message to stderr", slog.Any("err", err))
		}
		if _, err := fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH); err != nil {
			l.Error("failed to write version info to stderr", slog.Any("err", err))
		}
		exitFn(2)
	}
}

func outDir(rs *Rescue) string {
	if rs != nil && rs.Dir != "" {
		_ = os.MkdirAll(rs.Dir, 0o755)
		return rs.Dir
	}
	return os.TempDir()
}

func writeReport(rs *Rescue, panicVal any, stack []byte, now time.Time) (string, error) {
	path := filepath.Join(outDir(rs), fmt.Sprintf("crash-%s.log", now.Format("20060102-150405")))

	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Go Pixel Art Crash Report\n")
	_, _ = fmt.Fprintf(&buf, "Timestamp: %s\n", now.Format(time.RFC3339))
	_, _ = fmt.Fprintf(&buf, "Version: %s\n", version.String())
	_, _ = fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if rs != nil && rs.Canvas != nil {
		_, _ = fmt.Fprintf(&buf, "Rescue: %s\n", rescueName(now))
	}
	_, _ = fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	_, _ = fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}

func rescueName(now time.Time) string {
	return fmt.Sprintf("rescue-%s.png", now.Format("20060102-150405"))
}

// writeRescue stores the raw surface snapshot, grid lines included, so it can be
// loaded back into a surface of the same dimensions.
func writeRescue(rs *Rescue, now time.Time) (path string, err error) {
	defer func() {
		// the canvas may be the thing that panicked
		if r := recover(); r != nil {
			err = fmt.Errorf("snapshot panicked: %v", r)
		}
	}()
	data, err := rs.Canvas.Snapshot()
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	path = filepath.Join(outDir(rs), rescueName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
