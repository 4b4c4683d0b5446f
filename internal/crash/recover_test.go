/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopixelart/internal/domain"
	"gopixelart/internal/raster"
)

// TestRecover_PanickingGoroutine ensures Recover handles a panic, writes a report
// and a rescue image, and does not terminate the test process due to injected exitFn.
func TestRecover_PanickingGoroutine(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	dir := t.TempDir()
	surf := raster.New(domain.Dimensions{CellCount: 4, CellPixelSize: 4})
	surf.PaintCell(domain.Cell{X: 1, Y: 2}, domain.Black)

	func() {
		defer Recover(&Rescue{Dir: dir, Canvas: surf})
		panic("boom")
	}()

	var report, rescue string
	files, _ := os.ReadDir(dir)
	for _, f := range files {
		switch {
		case strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log"):
			report = filepath.Join(dir, f.Name())
		case strings.HasPrefix(f.Name(), "rescue-") && strings.HasSuffix(f.Name(), ".png"):
			rescue = filepath.Join(dir, f.Name())
		}
	}
	if report == "" || rescue == "" {
		t.Fatalf("expected report and rescue image, got %v", files)
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}

	data, _ := os.ReadFile(rescue)
	restored := raster.New(surf.Dimensions())
	if err := restored.LoadFrom(data); err != nil {
		t.Fatalf("rescue image should load back: %v", err)
	}
	if c, _ := restored.SampleCell(domain.Cell{X: 1, Y: 2}); !c.Equal(domain.Black) {
		t.Fatalf("rescued cell = %v, want black", c)
	}

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}
