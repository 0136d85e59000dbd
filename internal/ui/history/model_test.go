// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"strings"
	"testing"

	"github.com/jeranaias/chatvault/internal/model"
	"github.com/jeranaias/chatvault/internal/storage"
	"github.com/jeranaias/chatvault/internal/store"
	"github.com/jeranaias/chatvault/internal/ui/styles"
)

func TestRenderItem_FlattensMultilineContent(t *testing.T) {
	sessions := store.New(storage.NewMemorySlot())
	if _, err := sessions.Upsert(store.CreateID(), []model.Message{
		model.NewAssistantMessage("welcome"),
		model.NewUserMessage("first line\nsecond line"),
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	m := New(styles.NewTheme(), sessions, false)
	m.width = 80
	if len(m.items) != 1 {
		t.Fatalf("items = %d, want 1", len(m.items))
	}

	row := m.renderItem(m.items[0], false)

	// Title and preview each occupy exactly one list row; the only newline
	// is the structural one between them.
	if got := strings.Count(row, "\n"); got != 1 {
		t.Errorf("rendered row has %d newlines, want 1:\n%q", got, row)
	}
	if !strings.Contains(row, "first line second line") {
		t.Errorf("rendered row missing flattened content:\n%q", row)
	}
}

func TestRenderItem_CompactSingleRow(t *testing.T) {
	sessions := store.New(storage.NewMemorySlot())
	if _, err := sessions.Upsert(store.CreateID(), []model.Message{
		model.NewAssistantMessage("welcome"),
		model.NewUserMessage("one\ntwo"),
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	m := New(styles.NewTheme(), sessions, true)
	m.width = 80
	row := m.renderItem(m.items[0], false)
	if strings.Contains(row, "\n") {
		t.Errorf("compact row should be a single line:\n%q", row)
	}
}
