/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of surface states kept when Config.Capacity is unset.
const DefaultCapacity = 50

// Snapshot is one serialized surface state.
// Blob content is opaque to the history; size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	Blob []byte
	TS   time.Time
}

// Config controls depth and memory caps.
type Config struct {
	// Capacity limits the number of entries (0 means DefaultCapacity).
	Capacity int
	// MaxBytes is a soft cap; older entries are pruned when exceeded (0 means unlimited).
	// The entry at the cursor is never pruned.
	MaxBytes int
}

// History is a linear undo stack over full-surface snapshots.
//
// snapshots[cursor] is the current state. Pushing discards everything after
// the cursor; there is no redo.
type History struct {
	cfg Config
	mu  sync.Mutex

	snapshots  []Snapshot
	cursor     int
	totalBytes int
}

// NewHistory creates an empty history; Reset seeds it with the baseline.
func NewHistory(cfg Config) *History {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.MaxBytes < 0 {
		cfg.MaxBytes = 0
	}
	return &History{cfg: cfg}
}

// Push records s as the new current state. Entries after the cursor are
// discarded, and the oldest entries are evicted once the caps are exceeded.
func (h *History) Push(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.snapshots) > 0 {
		for _, dropped := range h.snapshots[h.cursor+1:] {
			h.totalBytes -= len(dropped.Blob)
		}
		h.snapshots = h.snapshots[:h.cursor+1]
	}
	h.snapshots = append(h.snapshots, s)
	h.totalBytes += len(s.Blob)
	h.cursor = len(h.snapshots) - 1
	h.enforceCapsLocked()
}

// Undo steps back one entry and returns the state to restore. At the oldest
// entry it reports false and leaves the cursor where it is.
func (h *History) Undo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor <= 0 || len(h.snapshots) == 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Reset drops all entries and starts over from a single baseline.
func (h *History) Reset(baseline Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshots = []Snapshot{baseline}
	h.cursor = 0
	h.totalBytes = len(baseline.Blob)
}

// Current returns the entry at the cursor.
func (h *History) Current() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.snapshots) == 0 {
		return Snapshot{}, false
	}
	return h.snapshots[h.cursor], true
}

// At returns the i-th retained entry, oldest first.
func (h *History) At(i int) (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.snapshots) {
		return Snapshot{}, false
	}
	return h.snapshots[i], true
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots)
}

// Cursor returns the index of the current entry.
func (h *History) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Stats returns current sizes for diagnostics.
func (h *History) Stats() (totalBytes int, entries int, cursor int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totalBytes, len(h.snapshots), h.cursor
}

func (h *History) enforceCapsLocked() {
	for len(h.snapshots) > h.cfg.Capacity {
		h.evictOldestLocked()
	}
	for h.cfg.MaxBytes > 0 && h.totalBytes > h.cfg.MaxBytes && h.cursor > 0 {
		h.evictOldestLocked()
	}
}

func (h *History) evictOldestLocked() {
	h.totalBytes -= len(h.snapshots[0].Blob)
	h.snapshots[0] = Snapshot{}
	h.snapshots = h.snapshots[1:]
	h.cursor--
	if h.cursor < 0 {
		h.cursor = 0
	}
}
