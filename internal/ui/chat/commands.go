// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatvault/internal/assistant"
)

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SendCmd creates a command that sends a user message to the assistant
// service and delivers the reply. The command captures the session ID so a
// reply arriving after the user switched conversations can be discarded.
func SendCmd(client *assistant.Client, sessionID, content string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return ReplyErrorMsg{SessionID: sessionID, Err: assistant.ErrUnreachable}
		}

		reply, err := client.Send(context.Background(), sessionID, content)
		if err != nil {
			return ReplyErrorMsg{SessionID: sessionID, Err: err}
		}
		return ReplyMsg{SessionID: sessionID, Content: reply}
	}
}

// CheckAssistantCmd creates a command that checks whether the assistant
// service is reachable.
func CheckAssistantCmd(client *assistant.Client) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return StatusMsg{Running: false, Err: assistant.ErrUnreachable}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := client.CheckRunning(ctx)
		return StatusMsg{Running: err == nil, Err: err}
	}
}
