// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value medium behind the session store.
package storage

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/chatvault/internal/util"
)

// =============================================================================
// FILE SLOT
// =============================================================================

// FileSlot implements Port on the local filesystem. Each key maps to one
// JSON document under the base directory; writes are atomic with fsync.
// External mutations are detected with fsnotify, falling back to modtime
// polling when the platform watcher cannot be created.
type FileSlot struct {
	baseDir string

	mu sync.Mutex
	// Content hashes of this process's own writes, used to tell our fsnotify
	// echoes apart from another context's writes.
	ownWrites map[string][32]byte

	changes chan struct{}
	watcher *fsnotify.Watcher
	done    chan struct{}
	closed  bool
}

// debounceWindow coalesces bursts of filesystem events into one signal.
const debounceWindow = 200 * time.Millisecond

// pollInterval drives the fallback watcher when fsnotify is unavailable.
const pollInterval = 2 * time.Second

// NewFileSlot creates a file-backed slot medium rooted at baseDir and starts
// watching it for external mutations.
func NewFileSlot(baseDir string) (*FileSlot, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	fs := &FileSlot{
		baseDir:   baseDir,
		ownWrites: make(map[string][32]byte),
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(baseDir); err == nil {
			fs.watcher = watcher
			go fs.watchEvents()
		} else {
			watcher.Close()
			go fs.pollChanges()
		}
	} else {
		go fs.pollChanges()
	}

	return fs, nil
}

// BaseDir returns the directory holding the slot files.
func (fs *FileSlot) BaseDir() string {
	return fs.baseDir
}

// =============================================================================
// PORT OPERATIONS
// =============================================================================

// Get returns the slot's value and whether the slot file exists.
func (fs *FileSlot) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(fs.slotPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return data, true, nil
}

// Set replaces the slot's value atomically.
func (fs *FileSlot) Set(key string, value []byte) error {
	fs.mu.Lock()
	fs.ownWrites[key] = sha256.Sum256(value)
	fs.mu.Unlock()

	if err := util.AtomicWriteFile(fs.slotPath(key), value, 0644); err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// Delete removes the slot file. Missing slots are a no-op.
func (fs *FileSlot) Delete(key string) error {
	fs.mu.Lock()
	delete(fs.ownWrites, key)
	fs.mu.Unlock()

	if err := os.Remove(fs.slotPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	return nil
}

// Changes signals external mutations of any slot under the base directory.
func (fs *FileSlot) Changes() <-chan struct{} {
	return fs.changes
}

// Close stops the watcher. The Changes channel stays open but goes quiet,
// so subscribers must be stopped separately.
func (fs *FileSlot) Close() error {
	fs.mu.Lock()
	if fs.closed {
		fs.mu.Unlock()
		return nil
	}
	fs.closed = true
	fs.mu.Unlock()

	close(fs.done)
	if fs.watcher != nil {
		return fs.watcher.Close()
	}
	return nil
}

// slotPath returns the file path for a slot key.
func (fs *FileSlot) slotPath(key string) string {
	return filepath.Join(fs.baseDir, key+".json")
}

// =============================================================================
// CHANGE DETECTION
// =============================================================================

// watchEvents consumes fsnotify events, filters out this process's own
// writes, and forwards one debounced signal per burst.
func (fs *FileSlot) watchEvents() {
	var timer *time.Timer

	defer func() {
		if r := recover(); r != nil {
			_ = r // watcher goroutine exits, polling is not restarted
		}
	}()

	for {
		select {
		case <-fs.done:
			return

		case event, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !fs.isExternal(event) {
				continue
			}
			// Debounce: a burst of events collapses into one signal.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, fs.signal)

		case _, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// isExternal reports whether the event was caused by another context.
// Atomic writes land as a rename of a ".tmp-*" file, so temp-file events are
// ignored outright and slot-file events are matched against the hash of the
// value this process last wrote.
func (fs *FileSlot) isExternal(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".tmp-") {
		return false
	}
	if !strings.HasSuffix(name, ".json") {
		return false
	}
	key := strings.TrimSuffix(name, ".json")

	data, err := os.ReadFile(event.Name)
	if err != nil {
		// Deleted or unreadable: external unless we deleted it ourselves,
		// in which case the key was already dropped from ownWrites too,
		// making this indistinguishable. Treat as external; a spurious
		// reload is harmless.
		return true
	}

	fs.mu.Lock()
	own, tracked := fs.ownWrites[key]
	fs.mu.Unlock()

	return !tracked || sha256.Sum256(data) != own
}

// signal delivers a coalesced change notification without blocking.
func (fs *FileSlot) signal() {
	fs.mu.Lock()
	closed := fs.closed
	fs.mu.Unlock()
	if closed {
		return
	}
	select {
	case fs.changes <- struct{}{}:
	default:
	}
}

// pollChanges is the fallback watcher: it compares slot-file modtimes on an
// interval and signals when a file changed outside this process.
func (fs *FileSlot) pollChanges() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	seen := fs.snapshotModTimes()

	for {
		select {
		case <-fs.done:
			return
		case <-ticker.C:
			current := fs.snapshotModTimes()
			if fs.modTimesDiffer(seen, current) {
				fs.signal()
			}
			seen = current
		}
	}
}

// snapshotModTimes records the modtime of every slot file.
func (fs *FileSlot) snapshotModTimes() map[string]time.Time {
	snapshot := make(map[string]time.Time)
	entries, err := os.ReadDir(fs.baseDir)
	if err != nil {
		return snapshot
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		snapshot[entry.Name()] = info.ModTime()
	}
	return snapshot
}

// modTimesDiffer reports whether any slot file changed between snapshots,
// ignoring files whose current content matches our own last write.
func (fs *FileSlot) modTimesDiffer(old, current map[string]time.Time) bool {
	for name, mod := range current {
		prev, existed := old[name]
		if existed && prev.Equal(mod) {
			continue
		}
		if fs.isExternal(fsnotify.Event{Name: filepath.Join(fs.baseDir, name), Op: fsnotify.Write}) {
			return true
		}
	}
	for name := range old {
		if _, still := current[name]; !still {
			return true
		}
	}
	return false
}
