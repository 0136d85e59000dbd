// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"time"

	"github.com/jeranaias/chatvault/internal/timeutil"
	"github.com/jeranaias/chatvault/internal/util"
)

// =============================================================================
// DERIVED FIELDS
// =============================================================================

// Derivation limits for session titles and previews.
const (
	TitleMaxRunes   = 30
	TitleMinBreak   = 15
	PreviewMaxRunes = 50
	PreviewCutRunes = 47
	DefaultTitle    = "New Chat"
	DefaultPreview  = "No messages yet"
)

// firstUserMessage returns the first message sent by the user, or nil.
func firstUserMessage(msgs []Message) *Message {
	for i := range msgs {
		if msgs[i].Sender == SenderUser {
			return &msgs[i]
		}
	}
	return nil
}

// DeriveTitle produces a session title from its first user message.
// Content is truncated to 30 runes; when the cut lands mid-word the title
// backs off to the last word boundary at rune 15 or later, then gains "...".
// Sessions with no user message are titled "New Chat".
func DeriveTitle(msgs []Message) string {
	first := firstUserMessage(msgs)
	if first == nil {
		return DefaultTitle
	}
	content := strings.TrimSpace(first.Content)
	if content == "" {
		return DefaultTitle
	}
	return util.TruncateAtWord(content, TitleMaxRunes, TitleMinBreak)
}

// DerivePreview produces a session preview from its first user message:
// the trimmed content, cut to 47 runes plus "..." when longer than 50.
// Sessions with no user message preview as "No messages yet".
func DerivePreview(msgs []Message) string {
	first := firstUserMessage(msgs)
	if first == nil {
		return DefaultPreview
	}
	content := strings.TrimSpace(first.Content)
	if content == "" {
		return DefaultPreview
	}
	if util.RuneLen(content) > PreviewMaxRunes {
		return util.TruncateRunesNoEllipsis(content, PreviewCutRunes) + "..."
	}
	return content
}

// =============================================================================
// STORAGE CONVERSION
// =============================================================================

// ToStorageForm converts runtime messages to their portable stored form.
// Timestamps become RFC 3339 strings; every other field passes through.
func ToStorageForm(msgs []Message) []StoredMessage {
	out := make([]StoredMessage, len(msgs))
	for i, m := range msgs {
		ts := m.Timestamp
		if !timeutil.IsValid(ts) {
			ts = time.Now()
		}
		out[i] = StoredMessage{
			ID:        m.ID,
			Sender:    m.Sender.String(),
			Content:   m.Content,
			Timestamp: ts.Format(time.RFC3339),
		}
	}
	return out
}

// ToRuntimeForm converts stored messages back to the runtime representation.
// Malformed timestamps are repaired with a best-effort current time rather
// than rejecting the record.
func ToRuntimeForm(msgs []StoredMessage) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		out[i] = Message{
			ID:        m.ID,
			Sender:    Sender(m.Sender),
			Content:   m.Content,
			Timestamp: timeutil.CoerceString(m.Timestamp),
		}
	}
	return out
}
