// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value medium behind the session store.
package storage

import (
	"errors"
	"sync"
)

// ErrMediumUnavailable simulates a full or unavailable medium in tests.
var ErrMediumUnavailable = errors.New("storage medium unavailable")

// MemorySlot is an in-memory Port for tests. It can simulate write failures
// and lets tests inject external mutations via NotifyExternal.
type MemorySlot struct {
	mu      sync.Mutex
	slots   map[string][]byte
	changes chan struct{}
	closed  bool

	// FailWrites makes Set and Delete return ErrMediumUnavailable.
	FailWrites bool
	// FailReads makes Get return ErrMediumUnavailable.
	FailReads bool
}

// NewMemorySlot creates an empty in-memory medium.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{
		slots:   make(map[string][]byte),
		changes: make(chan struct{}, 1),
	}
}

// Get returns the slot's value and whether it exists.
func (ms *MemorySlot) Get(key string) ([]byte, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.FailReads {
		return nil, false, ErrMediumUnavailable
	}
	value, ok := ms.slots[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored value.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set replaces the slot's value.
func (ms *MemorySlot) Set(key string, value []byte) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.FailWrites {
		return ErrMediumUnavailable
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ms.slots[key] = stored
	return nil
}

// Delete removes the slot.
func (ms *MemorySlot) Delete(key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.FailWrites {
		return ErrMediumUnavailable
	}
	delete(ms.slots, key)
	return nil
}

// Changes signals injected external mutations.
func (ms *MemorySlot) Changes() <-chan struct{} {
	return ms.changes
}

// Close closes the change channel.
func (ms *MemorySlot) Close() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.closed {
		ms.closed = true
		close(ms.changes)
	}
	return nil
}

// NotifyExternal simulates another context mutating the medium: it writes
// the value directly and pushes a change signal.
func (ms *MemorySlot) NotifyExternal(key string, value []byte) {
	ms.mu.Lock()
	stored := make([]byte, len(value))
	copy(stored, value)
	ms.slots[key] = stored
	closed := ms.closed
	ms.mu.Unlock()

	if closed {
		return
	}
	select {
	case ms.changes <- struct{}{}:
	default:
	}
}
