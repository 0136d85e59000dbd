// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the durable collection of chat sessions.
package store

import (
	"sync"

	"github.com/jeranaias/chatvault/internal/model"
)

// =============================================================================
// CROSS-CONTEXT SYNC LISTENER
// =============================================================================

// Listener reloads the collection when another execution context mutates
// the shared storage slot. It is the system's only cross-context consistency
// mechanism: eventual, poll-free, last-write-wins. No merge, no conflict
// detection; if two contexts write concurrently the later physical write
// wins in its entirety.
type Listener struct {
	store *Store

	mu       sync.Mutex
	onReload func([]model.ChatSession)
	done     chan struct{}
	once     sync.Once
}

// NewListener subscribes to the store medium's change notifications and
// invokes onReload with a fresh ListAll after every external mutation.
func NewListener(s *Store, onReload func([]model.ChatSession)) *Listener {
	l := &Listener{
		store:    s,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Listener) run() {
	changes := l.store.port.Changes()
	for {
		select {
		case <-l.done:
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			l.mu.Lock()
			fn := l.onReload
			l.mu.Unlock()
			if fn != nil {
				fn(l.store.ListAll())
			}
		}
	}
}

// Stop detaches the listener. The underlying medium keeps watching.
func (l *Listener) Stop() {
	l.once.Do(func() { close(l.done) })
}
