// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/chatvault/internal/util"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("message ID should start with 'msg_', got %q", msg.ID)
	}
	if msg.Sender != SenderUser {
		t.Errorf("Sender = %q, want %q", msg.Sender, SenderUser)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestSender_DisplayName(t *testing.T) {
	if SenderUser.DisplayName() != "You" {
		t.Errorf("SenderUser.DisplayName() = %q", SenderUser.DisplayName())
	}
	if SenderAssistant.DisplayName() != "Assistant" {
		t.Errorf("SenderAssistant.DisplayName() = %q", SenderAssistant.DisplayName())
	}
}

func TestMessage_IsEmpty(t *testing.T) {
	if !(Message{Content: "   "}).IsEmpty() {
		t.Error("whitespace-only content should be empty")
	}
	if (Message{Content: "hi"}).IsEmpty() {
		t.Error("non-blank content should not be empty")
	}
}

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle_WordBoundaryBackoff(t *testing.T) {
	msgs := []Message{
		NewAssistantMessage("Welcome! How can I help?"),
		NewUserMessage("What are the five pillars of Islam and why do they matter so much?"),
	}

	got := DeriveTitle(msgs)
	if got != "What are the five pillars of..." {
		t.Errorf("DeriveTitle = %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated title should end with an ellipsis marker")
	}
}

func TestDeriveTitle_NoUserMessage(t *testing.T) {
	msgs := []Message{NewAssistantMessage("Welcome!")}
	if got := DeriveTitle(msgs); got != DefaultTitle {
		t.Errorf("DeriveTitle = %q, want %q", got, DefaultTitle)
	}
}

func TestDeriveTitle_EmptyList(t *testing.T) {
	if got := DeriveTitle(nil); got != DefaultTitle {
		t.Errorf("DeriveTitle(nil) = %q, want %q", got, DefaultTitle)
	}
}

func TestDeriveTitle_ShortContentUntruncated(t *testing.T) {
	msgs := []Message{NewUserMessage("Hello there")}
	if got := DeriveTitle(msgs); got != "Hello there" {
		t.Errorf("DeriveTitle = %q", got)
	}
}

func TestDeriveTitle_TrimsWhitespace(t *testing.T) {
	msgs := []Message{NewUserMessage("  padded question  ")}
	if got := DeriveTitle(msgs); got != "padded question" {
		t.Errorf("DeriveTitle = %q", got)
	}
}

// =============================================================================
// PREVIEW DERIVATION TESTS
// =============================================================================

func TestDerivePreview_ExactBoundary(t *testing.T) {
	// 51 characters: preview is the first 47 plus "...", total 50.
	content := strings.Repeat("a", 51)
	msgs := []Message{NewUserMessage(content)}

	got := DerivePreview(msgs)
	if util.RuneLen(got) != 50 {
		t.Errorf("preview length = %d, want 50", util.RuneLen(got))
	}
	if got != strings.Repeat("a", 47)+"..." {
		t.Errorf("DerivePreview = %q", got)
	}
}

func TestDerivePreview_FitsUnchanged(t *testing.T) {
	content := strings.Repeat("b", 50)
	msgs := []Message{NewUserMessage(content)}
	if got := DerivePreview(msgs); got != content {
		t.Errorf("50-char content should pass through, got %q", got)
	}
}

func TestDerivePreview_NoUserMessage(t *testing.T) {
	msgs := []Message{NewAssistantMessage("Welcome!")}
	if got := DerivePreview(msgs); got != DefaultPreview {
		t.Errorf("DerivePreview = %q, want %q", got, DefaultPreview)
	}
}

// =============================================================================
// STORAGE CONVERSION TESTS
// =============================================================================

func TestStorageForm_RoundTrip(t *testing.T) {
	original := []Message{
		NewAssistantMessage("Hi! Ask me anything."),
		NewUserMessage("Tell me about Tawheed"),
	}

	stored := ToStorageForm(original)
	restored := ToRuntimeForm(stored)

	if len(restored) != len(original) {
		t.Fatalf("restored %d messages, want %d", len(restored), len(original))
	}
	for i := range original {
		if restored[i].ID != original[i].ID {
			t.Errorf("message %d: ID = %q, want %q", i, restored[i].ID, original[i].ID)
		}
		if restored[i].Sender != original[i].Sender {
			t.Errorf("message %d: Sender = %q, want %q", i, restored[i].Sender, original[i].Sender)
		}
		if restored[i].Content != original[i].Content {
			t.Errorf("message %d: Content = %q, want %q", i, restored[i].Content, original[i].Content)
		}
		// RFC 3339 keeps second granularity.
		if restored[i].Timestamp.Unix() != original[i].Timestamp.Unix() {
			t.Errorf("message %d: timestamps differ beyond second granularity", i)
		}
	}
}

func TestToRuntimeForm_RepairsMalformedTimestamp(t *testing.T) {
	stored := []StoredMessage{
		{ID: "msg_1", Sender: "user", Content: "hi", Timestamp: "garbage"},
	}

	before := time.Now()
	restored := ToRuntimeForm(stored)
	if restored[0].Timestamp.Before(before) {
		t.Error("malformed timestamp should be repaired with the current time")
	}
	if restored[0].Content != "hi" {
		t.Error("other fields must pass through unchanged")
	}
}

func TestToStorageForm_InvalidTimestampSubstituted(t *testing.T) {
	msgs := []Message{{ID: "msg_1", Sender: SenderUser, Content: "hi"}}
	stored := ToStorageForm(msgs)

	if _, err := time.Parse(time.RFC3339, stored[0].Timestamp); err != nil {
		t.Errorf("stored timestamp should be valid RFC 3339, got %q", stored[0].Timestamp)
	}
}
