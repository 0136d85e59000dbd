// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the durable collection of chat sessions.
//
// The whole collection lives in a single slot of a storage.Port medium and
// is bounded to a fixed number of most-recent sessions. Reads never fail:
// medium errors and corrupt payloads are logged and absorbed into empty
// results, so a broken data file degrades to an empty history instead of a
// crash.
//
// # Key Types
//
//   - Store: Read-modify-write session collection over one storage slot
//   - Listener: Subscribes to external slot mutations and reloads
//   - DateRange, SortOrder: Query pipeline controls for the history views
//   - Stats: Aggregate collection statistics
//
// # Usage
//
// Open a store and persist a conversation:
//
//	slot, _ := storage.NewFileSlot(dataDir)
//	sessions := store.New(slot, store.WithCapacity(50))
//
//	id := store.CreateID()
//	saved, err := sessions.Upsert(id, messages)
//
// Query for the history view:
//
//	results := store.QuerySessions(sessions, "fasting", store.RangeWeek, store.SortRecent)
package store
