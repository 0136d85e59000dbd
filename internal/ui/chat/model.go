// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatvault/internal/assistant"
	"github.com/jeranaias/chatvault/internal/autosave"
	"github.com/jeranaias/chatvault/internal/model"
	"github.com/jeranaias/chatvault/internal/store"
	"github.com/jeranaias/chatvault/internal/timeutil"
	"github.com/jeranaias/chatvault/internal/ui/styles"
)

// welcomeText opens every fresh conversation. A conversation that never
// grows past this single assistant message is never persisted.
const welcomeText = "Welcome to chatvault. Ask me anything, or press ctrl+h to browse your saved conversations."

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady   State = iota // Ready for input
	StateWaiting              // Waiting for the assistant's reply
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view. It owns the
// active message list and feeds every change to the auto-save coordinator;
// persistence timing is entirely the coordinator's concern.
type Model struct {
	state State
	theme *styles.Theme

	width  int
	height int

	// Conversation
	sessionID string
	title     string
	messages  []model.Message

	// Collaborators
	sessions  *store.Store
	saves     *autosave.Coordinator
	assistant *assistant.Client

	// UI components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	assistantUp    bool
	showTimestamps bool
}

// New creates a chat view backed by the given store, coordinator, and
// assistant client.
func New(theme *styles.Theme, sessions *store.Store, saves *autosave.Coordinator, client *assistant.Client, showTimestamps bool) Model {
	input := textarea.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		theme:          theme,
		sessions:       sessions,
		saves:          saves,
		assistant:      client,
		viewport:       viewport.New(80, 20),
		input:          input,
		spinner:        sp,
		showTimestamps: showTimestamps,
	}
	m.startSession()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, CheckAssistantCmd(m.assistant))
}

// startSession begins a fresh conversation with the welcome message.
func (m *Model) startSession() {
	m.sessionID = store.CreateID()
	m.title = model.DefaultTitle
	m.messages = []model.Message{model.NewAssistantMessage(welcomeText)}
	m.state = StateReady
	m.saves.Track(m.sessionID)
	m.saves.MessagesChanged(m.messages)
	m.refreshTranscript()
}

// resumeSession loads a saved conversation into the view.
func (m *Model) resumeSession(s model.ChatSession) {
	m.sessionID = s.ID
	m.title = s.Title
	m.messages = make([]model.Message, len(s.Messages))
	copy(m.messages, s.Messages)
	m.state = StateReady
	m.saves.Track(m.sessionID)
	m.saves.MessagesChanged(m.messages)
	m.refreshTranscript()
}

// SessionID returns the active conversation's ID.
func (m Model) SessionID() string {
	return m.sessionID
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if cmd := m.submit(); cmd != nil {
				return m, cmd
			}
			return m, nil
		case "ctrl+h":
			return m, func() tea.Msg { return OpenHistoryMsg{} }
		case "ctrl+n":
			m.saves.Flush()
			m.startSession()
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case ReplyMsg:
		// A reply for a conversation the user already left is dropped.
		if msg.SessionID != m.sessionID {
			return m, nil
		}
		m.messages = append(m.messages, model.NewAssistantMessage(msg.Content))
		m.state = StateReady
		m.saves.MessagesChanged(m.messages)
		m.refreshTitle()
		m.refreshTranscript()
		return m, nil

	case ReplyErrorMsg:
		if msg.SessionID != m.sessionID {
			return m, nil
		}
		// A failed turn becomes a synthetic assistant message, so the
		// transcript and the persisted history both record it.
		m.messages = append(m.messages, model.NewAssistantMessage(assistant.UserMessage(msg.Err)))
		m.state = StateReady
		m.saves.MessagesChanged(m.messages)
		m.refreshTranscript()
		return m, nil

	case StatusMsg:
		m.assistantUp = msg.Running
		return m, nil

	case SavedMsg:
		if msg.Session.ID == m.sessionID {
			m.title = msg.Session.Title
		}
		return m, nil

	case ResumeSessionMsg:
		m.resumeSession(msg.Session)
		return m, nil

	case NewSessionMsg:
		m.saves.Flush()
		m.startSession()
		return m, nil

	case spinner.TickMsg:
		if m.state == StateWaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the current input as a user message.
func (m *Model) submit() tea.Cmd {
	if m.state == StateWaiting {
		return nil
	}
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return nil
	}

	m.input.Reset()
	m.messages = append(m.messages, model.NewUserMessage(content))
	m.state = StateWaiting
	m.saves.MessagesChanged(m.messages)
	m.refreshTitle()
	m.refreshTranscript()

	return tea.Batch(
		SendCmd(m.assistant, m.sessionID, content),
		m.spinner.Tick,
	)
}

// refreshTitle re-derives the display title from the message list so the
// header matches what a save would record.
func (m *Model) refreshTitle() {
	m.title = model.DeriveTitle(m.messages)
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := m.input.Height() + 2
	headerHeight := 3
	statusHeight := 1
	m.viewport.Width = width
	m.viewport.Height = height - inputHeight - headerHeight - statusHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}
	m.input.SetWidth(width - 4)

	// Glamour wraps to a fixed width, so the renderer is rebuilt per resize.
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width-10, 100)),
	)
	if err == nil {
		m.renderer = renderer
	}
	m.refreshTranscript()
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Header.Width(max(m.width-2, 20)).Render(
		m.theme.HeaderTitle.Render(m.title),
	))
	b.WriteString("\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	b.WriteString(m.theme.InputContainer.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.statusBar())

	return b.String()
}

// refreshTranscript re-renders the message list into the viewport and
// scrolls to the latest message.
func (m *Model) refreshTranscript() {
	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message) string {
	label := m.theme.SenderAssistant.Render(msg.Sender.DisplayName())
	bubble := m.theme.AssistantBubble
	content := msg.Content

	if msg.Sender == model.SenderUser {
		label = m.theme.SenderUser.Render(msg.Sender.DisplayName())
		bubble = m.theme.UserBubble
	} else if m.renderer != nil {
		// Assistant replies are markdown; fall back to the raw text when
		// rendering fails.
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	if m.showTimestamps && timeutil.IsValid(msg.Timestamp) {
		label = lipgloss.JoinHorizontal(lipgloss.Top,
			label, " ",
			m.theme.Timestamp.Render(timeutil.FormatShortTime(msg.Timestamp)),
		)
	}

	return label + "\n" + bubble.Render(content)
}

func (m Model) statusBar() string {
	var parts []string

	if m.state == StateWaiting {
		parts = append(parts, m.spinner.View()+" thinking")
	} else if m.assistantUp {
		parts = append(parts, m.theme.SaveDone.Render("● online"))
	} else {
		parts = append(parts, m.theme.SaveIdle.Render("○ offline"))
	}

	switch m.saves.State() {
	case autosave.StatePending:
		parts = append(parts, m.theme.SavePending.Render("unsaved"))
	case autosave.StateSaving:
		parts = append(parts, m.theme.SavePending.Render("saving..."))
	default:
		if !m.saves.LastSaved().IsZero() {
			parts = append(parts, m.theme.SaveDone.Render(
				fmt.Sprintf("saved %s", timeutil.Relative(m.saves.LastSaved()))))
		}
	}

	parts = append(parts,
		m.theme.ShortcutKey.Render("ctrl+h")+m.theme.ShortcutDesc.Render(" history"),
		m.theme.ShortcutKey.Render("ctrl+n")+m.theme.ShortcutDesc.Render(" new"),
		m.theme.ShortcutKey.Render("ctrl+c")+m.theme.ShortcutDesc.Render(" quit"),
	)

	return m.theme.StatusBar.Width(max(m.width, 20)).Render(strings.Join(parts, "  "))
}
