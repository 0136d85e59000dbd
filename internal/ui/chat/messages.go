// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
//
// This file defines the Bubble Tea message types used by the chat view:
//   - Assistant: reply delivery, errors, and health status
//   - Persistence: auto-save completion and cross-context reloads
//   - Navigation: switching to the history view
package chat

import "github.com/jeranaias/chatvault/internal/model"

// =============================================================================
// ASSISTANT MESSAGES
// =============================================================================

// ReplyMsg delivers the assistant's reply for a conversation.
type ReplyMsg struct {
	SessionID string
	Content   string
}

// ReplyErrorMsg signals that a send failed.
type ReplyErrorMsg struct {
	SessionID string
	Err       error
}

// StatusMsg reports whether the assistant service is reachable.
type StatusMsg struct {
	Running bool
	Err     error
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// SavedMsg signals that the auto-save coordinator persisted the conversation.
type SavedMsg struct {
	Session model.ChatSession
}

// ReloadedMsg delivers the session collection after another writer changed
// the storage slot. The active conversation is not disturbed; the list is
// refreshed so the history view reflects the latest write.
type ReloadedMsg struct {
	Sessions []model.ChatSession
}

// =============================================================================
// NAVIGATION MESSAGES
// =============================================================================

// OpenHistoryMsg asks the root model to switch to the history view.
type OpenHistoryMsg struct{}

// ResumeSessionMsg asks the chat view to load a saved conversation.
type ResumeSessionMsg struct {
	Session model.ChatSession
}

// NewSessionMsg asks the chat view to start a fresh conversation.
type NewSessionMsg struct{}
