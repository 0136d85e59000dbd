// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui ties the chat and history views together under one root
// Bubble Tea model.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatvault/internal/assistant"
	"github.com/jeranaias/chatvault/internal/autosave"
	"github.com/jeranaias/chatvault/internal/config"
	"github.com/jeranaias/chatvault/internal/store"
	"github.com/jeranaias/chatvault/internal/ui/chat"
	"github.com/jeranaias/chatvault/internal/ui/history"
	"github.com/jeranaias/chatvault/internal/ui/styles"
)

// view selects which child model owns the screen.
type view int

const (
	viewChat view = iota
	viewHistory
)

// App is the root Bubble Tea model.
type App struct {
	active  view
	chat    chat.Model
	history history.Model
	saves   *autosave.Coordinator

	width  int
	height int
}

// NewApp wires the chat and history views over shared collaborators.
func NewApp(cfg *config.Config, sessions *store.Store, saves *autosave.Coordinator, client *assistant.Client) App {
	theme := styles.NewTheme()
	return App{
		chat:    chat.New(theme, sessions, saves, client, cfg.UI.ShowTimestamps),
		history: history.New(theme, sessions, cfg.UI.CompactHistory),
		saves:   saves,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return a.chat.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var chatCmd, histCmd tea.Cmd
		a.chat, chatCmd = a.chat.Update(msg)
		a.history, histCmd = a.history.Update(msg)
		return a, tea.Batch(chatCmd, histCmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// A quiescing conversation is written out before exit.
			a.saves.Flush()
			return a, tea.Quit
		}

	case chat.OpenHistoryMsg:
		a.history.Refresh()
		a.active = viewHistory
		return a, nil

	case chat.ResumeSessionMsg:
		a.active = viewChat
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case chat.NewSessionMsg:
		a.active = viewChat
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case chat.ReplyMsg, chat.ReplyErrorMsg, chat.StatusMsg:
		// Assistant traffic always belongs to the chat model, even while
		// the user is browsing history.
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case chat.SavedMsg:
		// Saves land regardless of which view owns the screen.
		a.history.Refresh()
		var cmd tea.Cmd
		a.chat, cmd = a.chat.Update(msg)
		return a, cmd

	case chat.ReloadedMsg:
		// Another process rewrote the slot. The history list is refreshed;
		// the active conversation keeps its in-memory state and the next
		// save wins.
		a.history.Refresh()
		return a, nil
	}

	var cmd tea.Cmd
	switch a.active {
	case viewHistory:
		a.history, cmd = a.history.Update(msg)
	default:
		a.chat, cmd = a.chat.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.active == viewHistory {
		return a.history.View()
	}
	return a.chat.View()
}
