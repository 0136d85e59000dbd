// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// This package defines the core domain types used throughout the
// application, plus the codec that maps them to and from their stored
// form.
//
// # Key Types
//
//   - ChatSession: Container for a conversation with derived metadata
//   - Message: Single message with sender, content, and timestamp
//   - Sender: Message sender enumeration (user, assistant)
//   - StoredCollection: The versioned on-disk envelope
//
// # Usage
//
// Create messages and derive session metadata:
//
//	msgs := []model.Message{
//	    model.NewAssistantMessage("Welcome!"),
//	    model.NewUserMessage("What is the ruling on fasting while traveling?"),
//	}
//	title := model.DeriveTitle(msgs)
//	preview := model.DerivePreview(msgs)
//
// Convert to the stored form and back:
//
//	stored := model.ToStorageForm(msgs)
//	runtime := model.ToRuntimeForm(stored)
package model
