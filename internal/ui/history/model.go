// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides the saved-conversation browser for the TUI.
//
// The view is a flat list over the session store with three controls: a
// text search across titles and message content, a cycling date filter,
// and a cycling sort order. Every keystroke re-runs the query pipeline
// against the store, so the list always reflects the persisted state.
package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/chatvault/internal/model"
	"github.com/jeranaias/chatvault/internal/store"
	"github.com/jeranaias/chatvault/internal/timeutil"
	"github.com/jeranaias/chatvault/internal/util"
	"github.com/jeranaias/chatvault/internal/ui/chat"
	"github.com/jeranaias/chatvault/internal/ui/styles"
)

// =============================================================================
// HISTORY MODEL
// =============================================================================

// Model is the Bubble Tea model for the history browser.
type Model struct {
	theme    *styles.Theme
	sessions *store.Store

	width  int
	height int

	items       []model.ChatSession
	cursor      int
	offset      int // first visible row
	dateRng     store.DateRange
	sortOrd     store.SortOrder
	search      textinput.Model
	focusSearch bool

	// Pending delete confirmation, empty when none.
	confirmDelete string

	compact bool
}

// New creates a history view over the given store.
func New(theme *styles.Theme, sessions *store.Store, compact bool) Model {
	search := textinput.New()
	search.Placeholder = "Search conversations..."
	search.Prompt = "/ "
	search.CharLimit = 200

	m := Model{
		theme:    theme,
		sessions: sessions,
		search:   search,
		compact:  compact,
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// reload re-runs the query pipeline and clamps the cursor.
func (m *Model) reload() {
	m.items = store.QuerySessions(m.sessions, m.search.Value(), m.dateRng, m.sortOrd)
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampOffset()
}

// Refresh re-reads the list, keeping the current query and cursor where
// possible. Called after another writer changed the storage slot.
func (m *Model) Refresh() {
	m.reload()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = msg.Width - 6
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if m.focusSearch {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.focusSearch = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	m.reload()
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	// A pending delete only understands confirm or cancel.
	if m.confirmDelete != "" {
		switch msg.String() {
		case "y", "Y", "enter":
			m.sessions.Remove(m.confirmDelete)
			m.confirmDelete = ""
			m.reload()
		default:
			m.confirmDelete = ""
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.clampOffset()
		}
	case "/":
		m.focusSearch = true
		return m, m.search.Focus()
	case "s":
		m.sortOrd = m.sortOrd.Next()
		m.reload()
	case "f":
		m.dateRng = m.dateRng.Next()
		m.reload()
	case "d", "delete", "backspace":
		if len(m.items) > 0 {
			m.confirmDelete = m.items[m.cursor].ID
		}
	case "n":
		return m, func() tea.Msg { return chat.NewSessionMsg{} }
	case "enter":
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			return m, func() tea.Msg { return chat.ResumeSessionMsg{Session: selected} }
		}
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.reload()
			return m, nil
		}
		return m, func() tea.Msg { return chat.NewSessionMsg{} }
	}
	return m, nil
}

// visibleRows returns how many list entries fit in the current height.
func (m Model) visibleRows() int {
	per := m.rowHeight()
	rows := (m.height - 4) / per
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m Model) rowHeight() int {
	if m.compact {
		return 1
	}
	return 3
}

func (m *Model) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	stats := m.sessions.Statistics()
	header := fmt.Sprintf("History — %d conversations, %d messages", stats.TotalSessions, stats.TotalMessages)
	b.WriteString(m.theme.HeaderTitle.Render(header))
	b.WriteString("\n")

	b.WriteString(m.filterBar())
	b.WriteString("\n")

	if m.focusSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	if len(m.items) == 0 {
		b.WriteString(m.theme.EmptyList.Render("No conversations found. Press n to start one."))
		b.WriteString("\n")
	} else {
		rows := m.visibleRows()
		end := m.offset + rows
		if end > len(m.items) {
			end = len(m.items)
		}
		for i := m.offset; i < end; i++ {
			b.WriteString(m.renderItem(m.items[i], i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) filterBar() string {
	return m.theme.FilterBar.Render(fmt.Sprintf(
		"sort: %s  ·  range: %s", m.sortOrd, m.dateRng,
	))
}

func (m Model) renderItem(s model.ChatSession, selected bool) string {
	width := m.width - 6
	if width < 20 {
		width = 20
	}

	meta := fmt.Sprintf("%d msgs · %s", s.MessageCount, timeutil.Relative(s.LastUpdated))
	title := runewidth.Truncate(util.CollapseWhitespace(s.Title), width-runewidth.StringWidth(meta)-2, "…")
	pad := width - runewidth.StringWidth(title) - runewidth.StringWidth(meta)
	if pad < 1 {
		pad = 1
	}

	line := m.theme.SessionTitle.Render(title) +
		strings.Repeat(" ", pad) +
		m.theme.SessionMeta.Render(meta)

	if m.confirmDelete == s.ID {
		line = m.theme.SessionTitle.Render(title) +
			strings.Repeat(" ", pad) +
			m.theme.SessionMeta.Foreground(styles.Rose).Render("delete? y/n")
	}

	body := line
	if !m.compact {
		body += "\n" + m.theme.SessionPreview.Render(runewidth.Truncate(util.CollapseWhitespace(s.Preview), width, "…"))
	}

	if selected {
		return m.theme.SessionItemSelected.Render(body)
	}
	return m.theme.SessionItem.Render(body)
}

func (m Model) statusBar() string {
	parts := []string{
		m.theme.ShortcutKey.Render("enter") + m.theme.ShortcutDesc.Render(" resume"),
		m.theme.ShortcutKey.Render("/") + m.theme.ShortcutDesc.Render(" search"),
		m.theme.ShortcutKey.Render("s") + m.theme.ShortcutDesc.Render(" sort"),
		m.theme.ShortcutKey.Render("f") + m.theme.ShortcutDesc.Render(" filter"),
		m.theme.ShortcutKey.Render("d") + m.theme.ShortcutDesc.Render(" delete"),
		m.theme.ShortcutKey.Render("esc") + m.theme.ShortcutDesc.Render(" back"),
	}
	return m.theme.StatusBar.Width(max(m.width, 20)).Render(strings.Join(parts, "  "))
}
