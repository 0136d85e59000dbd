// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/chatvault/internal/model"
)

func sampleSession() *model.ChatSession {
	return &model.ChatSession{
		ID:    "abc123",
		Title: "Prayer times while traveling",
		Messages: []model.Message{
			model.NewAssistantMessage("Welcome!"),
			model.NewUserMessage("How do I shorten prayers on a journey?"),
			model.NewAssistantMessage("A traveler may shorten the four-unit prayers to two units."),
		},
		LastUpdated:  time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
		MessageCount: 3,
	}
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleSession())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	content := string(out)

	if !strings.HasPrefix(content, "---\n") {
		t.Error("metadata frontmatter missing")
	}
	if !strings.Contains(content, "# Prayer times while traveling") {
		t.Error("title heading missing")
	}
	if !strings.Contains(content, "### You") || !strings.Contains(content, "### Assistant") {
		t.Error("sender headings missing")
	}
	if !strings.Contains(content, "shorten the four-unit prayers") {
		t.Error("message content missing")
	}
}

func TestMarkdownExport_NoMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false}
	out, err := NewMarkdownExporter(opts).Export(sampleSession())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if strings.HasPrefix(string(out), "---\n") {
		t.Error("frontmatter present despite IncludeMetadata=false")
	}
}

func TestMarkdownExport_EmptyConversation(t *testing.T) {
	if _, err := NewMarkdownExporter(nil).Export(&model.ChatSession{ID: "x"}); err == nil {
		t.Error("expected error for conversation with no messages")
	}
	if _, err := NewMarkdownExporter(nil).Export(nil); err == nil {
		t.Error("expected error for nil conversation")
	}
}

func TestEscapeYAML(t *testing.T) {
	if got := escapeYAML("plain title"); got != "plain title" {
		t.Errorf("plain title escaped: %q", got)
	}
	if got := escapeYAML("title: with colon"); got != `"title: with colon"` {
		t.Errorf("colon title = %q", got)
	}
}

// =============================================================================
// JSON TESTS
// =============================================================================

func TestJSONExport_RoundTrips(t *testing.T) {
	out, err := NewJSONExporter().Export(sampleSession())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var decoded model.ChatSession
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if decoded.ID != "abc123" || len(decoded.Messages) != 3 {
		t.Errorf("round trip lost data: %+v", decoded)
	}
}

// =============================================================================
// FILE TESTS
// =============================================================================

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	path, err := ToFile(sampleSession(), NewMarkdownExporter(nil), nil, filepath.Join(dir, "out.md"))
	if err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "Prayer times") {
		t.Error("exported file missing content")
	}
}

func TestToFile_DerivedName(t *testing.T) {
	opts := &Options{OutputDir: t.TempDir(), IncludeMetadata: true, IncludeTimestamps: true}
	path, err := ToFile(sampleSession(), NewMarkdownExporter(opts), opts, "")
	if err != nil {
		t.Fatalf("ToFile failed: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "conversation_Prayer_times") || !strings.HasSuffix(base, ".md") {
		t.Errorf("derived filename = %q", base)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Simple Title", "Simple_Title"},
		{"slash/and\\dots..", "slashanddots"},
		{"", "untitled"},
		{"!!!", "untitled"},
	}
	for _, tc := range tests {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
