// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value medium behind the session store.
package storage

// Port abstracts a durable, synchronous, process-local key-value medium.
// Each key names a single slot holding one structured value; the session
// store performs whole-slot read-modify-write against it.
//
// Changes delivers a signal whenever another execution context mutates a
// slot. A process's own writes are not echoed back. Implementations may
// coalesce bursts into a single signal.
type Port interface {
	// Get returns the slot's value and whether the slot exists.
	Get(key string) ([]byte, bool, error)

	// Set replaces the slot's value.
	Set(key string, value []byte) error

	// Delete removes the slot. Deleting a missing slot is a no-op.
	Delete(key string) error

	// Changes signals external mutations of any slot.
	Changes() <-chan struct{}

	// Close releases watcher resources. The Changes channel goes quiet but
	// is not guaranteed to be closed, so consumers stop on their own signal
	// rather than on channel closure.
	Close() error
}
