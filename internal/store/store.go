// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the durable collection of chat sessions.
package store

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/chatvault/internal/model"
	"github.com/jeranaias/chatvault/internal/storage"
	"github.com/jeranaias/chatvault/internal/timeutil"
)

// =============================================================================
// SESSION STORE
// =============================================================================

// DefaultSlotKey names the storage slot holding the session collection.
const DefaultSlotKey = "chatvault_sessions"

// DefaultCapacity bounds the persisted collection. Exceeding entries are
// discarded from the tail of the collection as currently ordered.
const DefaultCapacity = 50

// Store is the single writer of durable session state. The whole collection
// lives in one slot of the backing medium; every operation is a synchronous
// read-modify-write on that slot, serialized by an internal mutex.
//
// The store is a best-effort cache, not a transactional log: medium and
// decode failures are logged and absorbed into empty/false results. No
// error escapes ListAll, Get, or Search.
type Store struct {
	mu       sync.Mutex
	port     storage.Port
	slotKey  string
	capacity int
}

// Option configures a Store.
type Option func(*Store)

// WithSlotKey overrides the storage slot key.
func WithSlotKey(key string) Option {
	return func(s *Store) { s.slotKey = key }
}

// WithCapacity overrides the retention capacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// New creates a session store over the given medium.
func New(port storage.Port, opts ...Option) *Store {
	s := &Store{
		port:     port,
		slotKey:  DefaultSlotKey,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateID mints a new opaque session identifier. Conversation views call
// this once at conversation start; the id is stable for the session's life.
func CreateID() string {
	return uuid.NewString()
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// ListAll returns every persisted session in collection order, with messages
// converted to their runtime form. A missing slot or corrupt payload yields
// an empty sequence, never an error.
func (s *Store) ListAll() []model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.readCollection()
	sessions := make([]model.ChatSession, 0, len(stored))
	for _, rec := range stored {
		sessions = append(sessions, toRuntime(rec))
	}
	return sessions
}

// Get returns the session with the given id, or false when absent.
func (s *Store) Get(id string) (model.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.readCollection() {
		if rec.ID == id {
			return toRuntime(rec), true
		}
	}
	return model.ChatSession{}, false
}

// Search returns sessions whose title or any message content contains the
// query, case-insensitively. Blank queries are the caller's concern: they
// should call ListAll instead.
func (s *Store) Search(query string) []model.ChatSession {
	query = strings.ToLower(query)
	s.mu.Lock()
	defer s.mu.Unlock()

	var results []model.ChatSession
	for _, rec := range s.readCollection() {
		if matchesQuery(rec, query) {
			results = append(results, toRuntime(rec))
		}
	}
	return results
}

// matchesQuery checks title and message bodies for a case-insensitive
// substring match.
func matchesQuery(rec model.StoredSession, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(rec.Title), lowerQuery) {
		return true
	}
	for _, msg := range rec.Messages {
		if strings.Contains(strings.ToLower(msg.Content), lowerQuery) {
			return true
		}
	}
	return false
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Upsert persists a session: derived fields are recomputed, an existing id
// is replaced in place at its current position, a new id is inserted at the
// front, and the tail beyond capacity is discarded. Collection order is
// insertion order, not recency order; callers wanting recency sort
// explicitly.
//
// On medium failure the error is reported to the caller and never retried.
func (s *Store) Upsert(id string, messages []model.Message) (model.ChatSession, error) {
	return s.upsert(id, messages, "")
}

// UpsertTitled is Upsert with an explicit title instead of the derived one.
func (s *Store) UpsertTitled(id string, messages []model.Message, title string) (model.ChatSession, error) {
	return s.upsert(id, messages, title)
}

func (s *Store) upsert(id string, messages []model.Message, title string) (model.ChatSession, error) {
	if title == "" {
		title = model.DeriveTitle(messages)
	}

	rec := model.StoredSession{
		ID:           id,
		Title:        title,
		Messages:     model.ToStorageForm(messages),
		LastUpdated:  time.Now().Format(time.RFC3339),
		MessageCount: len(messages),
		Preview:      model.DerivePreview(messages),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.readCollection()

	replaced := false
	for i := range collection {
		if collection[i].ID == id {
			collection[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		collection = append([]model.StoredSession{rec}, collection...)
	}

	// Retention: discard the tail beyond capacity.
	if len(collection) > s.capacity {
		collection = collection[:s.capacity]
	}

	if err := s.writeCollection(collection); err != nil {
		log.Printf("store: upsert of session %s failed: %v", id, err)
		return model.ChatSession{}, &StoreError{Message: ErrWriteFailed.Message, Cause: err}
	}

	return toRuntime(rec), nil
}

// Remove deletes the session with the given id and reports whether the
// rewrite succeeded. Removing an absent id succeeds as a no-op.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := s.readCollection()
	filtered := collection[:0]
	for _, rec := range collection {
		if rec.ID != id {
			filtered = append(filtered, rec)
		}
	}

	if err := s.writeCollection(filtered); err != nil {
		log.Printf("store: remove of session %s failed: %v", id, err)
		return false
	}
	return true
}

// Clear deletes the entire collection.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.port.Delete(s.slotKey); err != nil {
		log.Printf("store: clear failed: %v", err)
		return false
	}
	return true
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats aggregates the persisted collection. All fields are well-defined on
// an empty collection: counts are zero and the time bounds are zero values.
type Stats struct {
	TotalSessions             int
	TotalMessages             int
	OldestUpdated             time.Time
	NewestUpdated             time.Time
	AverageMessagesPerSession float64
}

// Statistics computes aggregate counts over the whole collection.
func (s *Store) Statistics() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats Stats
	for _, rec := range s.readCollection() {
		stats.TotalSessions++
		stats.TotalMessages += len(rec.Messages)

		updated := parseUpdated(rec.LastUpdated)
		if stats.OldestUpdated.IsZero() || updated.Before(stats.OldestUpdated) {
			stats.OldestUpdated = updated
		}
		if updated.After(stats.NewestUpdated) {
			stats.NewestUpdated = updated
		}
	}
	if stats.TotalSessions > 0 {
		stats.AverageMessagesPerSession = float64(stats.TotalMessages) / float64(stats.TotalSessions)
	}
	return stats
}

// =============================================================================
// SLOT SERIALIZATION
// =============================================================================

// readCollection deserializes the slot. Missing slots, medium errors, and
// corrupt payloads all become an empty collection with a diagnostic log
// line; malformed records are dropped rather than aborting the read.
// Callers must hold s.mu.
func (s *Store) readCollection() []model.StoredSession {
	data, ok, err := s.port.Get(s.slotKey)
	if err != nil {
		log.Printf("store: failed to read session collection: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var envelope model.StoredCollection
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Sessions == nil {
		// Payloads written before the schema envelope were a bare array.
		var legacy []model.StoredSession
		if err := json.Unmarshal(data, &legacy); err != nil {
			log.Printf("store: corrupt session collection payload, starting empty: %v", err)
			return nil
		}
		envelope.Sessions = legacy
	}

	// Drop records without an identity; everything else is repairable.
	valid := envelope.Sessions[:0]
	for _, rec := range envelope.Sessions {
		if rec.ID == "" {
			log.Printf("store: dropping session record with no id")
			continue
		}
		valid = append(valid, rec)
	}
	return valid
}

// writeCollection serializes and writes the whole collection to the slot.
// Callers must hold s.mu.
func (s *Store) writeCollection(collection []model.StoredSession) error {
	if collection == nil {
		collection = []model.StoredSession{}
	}
	envelope := model.StoredCollection{
		Schema:   model.SchemaVersion,
		Sessions: collection,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	return s.port.Set(s.slotKey, data)
}

// toRuntime rehydrates a stored record for display: timestamps become rich
// time values and the message count is recomputed from the messages.
func toRuntime(rec model.StoredSession) model.ChatSession {
	return model.ChatSession{
		ID:           rec.ID,
		Title:        rec.Title,
		Messages:     model.ToRuntimeForm(rec.Messages),
		LastUpdated:  parseUpdated(rec.LastUpdated),
		MessageCount: len(rec.Messages),
		Preview:      rec.Preview,
	}
}

// parseUpdated repairs a malformed lastUpdated value instead of rejecting
// the record.
func parseUpdated(s string) time.Time {
	return timeutil.CoerceString(s)
}
