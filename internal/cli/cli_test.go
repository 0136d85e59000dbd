// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"chatvault"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParse_DefaultIsTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdTUI {
		t.Errorf("no args should launch TUI, got %v", cmd)
	}
}

func TestParse_History(t *testing.T) {
	cmd, args := parseArgs(t, "history", "zakat", "--sort", "title", "--range", "week")
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v, want CmdHistory", cmd)
	}
	if args.Query != "zakat" {
		t.Errorf("query = %q", args.Query)
	}
	if args.Sort != "title" || args.Range != "week" {
		t.Errorf("sort = %q, range = %q", args.Sort, args.Range)
	}
}

func TestParse_HistoryAliases(t *testing.T) {
	for _, alias := range []string{"history", "list", "ls"} {
		if cmd, _ := parseArgs(t, alias); cmd != CmdHistory {
			t.Errorf("%q should map to CmdHistory, got %v", alias, cmd)
		}
	}
}

func TestParse_DeleteWithConfirm(t *testing.T) {
	cmd, args := parseArgs(t, "delete", "abc123", "--confirm")
	if cmd != CmdDelete {
		t.Fatalf("cmd = %v, want CmdDelete", cmd)
	}
	if args.SessionID != "abc123" {
		t.Errorf("session id = %q", args.SessionID)
	}
	if !args.Confirm {
		t.Error("--confirm not parsed")
	}
}

func TestParse_ExportWithOutput(t *testing.T) {
	cmd, args := parseArgs(t, "export", "abc123", "-o", "notes.md")
	if cmd != CmdExport {
		t.Fatalf("cmd = %v, want CmdExport", cmd)
	}
	if args.SessionID != "abc123" || args.Output != "notes.md" {
		t.Errorf("id = %q, output = %q", args.SessionID, args.Output)
	}
}

func TestParse_GlobalJSONFlag(t *testing.T) {
	cmd, args := parseArgs(t, "--json", "stats")
	if cmd != CmdStats {
		t.Fatalf("cmd = %v, want CmdStats", cmd)
	}
	if !args.JSON {
		t.Error("--json not parsed as global flag")
	}
}

func TestParseSortOrder(t *testing.T) {
	if _, err := parseSortOrder("nonsense"); err == nil {
		t.Error("expected error for unknown sort order")
	}
	if ord, err := parseSortOrder(""); err != nil || ord != 0 {
		t.Errorf("empty sort should default to recent: %v %v", ord, err)
	}
}

func TestParseDateRange(t *testing.T) {
	if _, err := parseDateRange("fortnight"); err == nil {
		t.Error("expected error for unknown range")
	}
}
