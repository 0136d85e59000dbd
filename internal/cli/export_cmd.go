// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Conversation export CLI command for chatvault.
//
// Command: export <id> [--output path] [--json]
//
// Examples:
//   chatvault export abc123                 Write conversation_<title>_<ts>.md
//   chatvault export abc123 -o notes.md     Write to an explicit path
//   chatvault export abc123 --json          Export the raw JSON structure
package cli

import (
	"fmt"

	"github.com/jeranaias/chatvault/internal/export"
	"github.com/jeranaias/chatvault/internal/store"
)

// HandleExport writes a conversation to a file as Markdown (default) or
// JSON.
func HandleExport(sessions *store.Store, args Args) error {
	if args.SessionID == "" {
		return fmt.Errorf("usage: chatvault export <id> [--output path]")
	}

	s, ok := resolveSession(sessions, args.SessionID)
	if !ok {
		return fmt.Errorf("no conversation matches %q", args.SessionID)
	}

	var exporter export.Exporter
	if args.JSON {
		exporter = export.NewJSONExporter()
	} else {
		exporter = export.NewMarkdownExporter(nil)
	}

	path, err := export.ToFile(&s, exporter, nil, args.Output)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %q to %s\n", s.Title, path)
	return nil
}
