// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import "time"

// =============================================================================
// RUNTIME SESSION TYPE
// =============================================================================

// ChatSession is one persisted conversation as seen by views: timestamps are
// rich time values, title/preview/message count are derived fields.
type ChatSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	LastUpdated  time.Time `json:"lastUpdated"`
	MessageCount int       `json:"messageCount"`
	Preview      string    `json:"preview"`
}

// HasUserMessage reports whether any message was sent by the user.
func (s *ChatSession) HasUserMessage() bool {
	for _, m := range s.Messages {
		if m.Sender == SenderUser {
			return true
		}
	}
	return false
}

// =============================================================================
// STORED FORMS
// =============================================================================

// SchemaVersion is the current version of the persisted collection layout.
// Bump when the stored shape changes so older payloads can be migrated.
const SchemaVersion = 1

// StoredCollection is the envelope written to the storage slot: the entire
// session collection serialized as one structured value.
type StoredCollection struct {
	Schema   int             `json:"schema"`
	Sessions []StoredSession `json:"sessions"`
}

// StoredSession is the portable form of ChatSession. Timestamps are RFC 3339
// strings so the payload stays sortable and readable across contexts.
type StoredSession struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Messages     []StoredMessage `json:"messages"`
	LastUpdated  string          `json:"lastUpdated"`
	MessageCount int             `json:"messageCount"`
	Preview      string          `json:"preview"`
}

// StoredMessage is the portable form of Message.
type StoredMessage struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
