// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for chatvault.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdHistory
	CmdShow
	CmdDelete
	CmdStats
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON    bool
	Confirm bool

	// Command-specific
	Query     string
	Sort      string
	Range     string
	SessionID string
	Output    string

	Raw []string
}

// Parse parses os.Args into a command and its arguments. With no arguments
// the TUI is launched.
func Parse() (Command, Args) {
	raw := os.Args[1:]
	args := Args{}

	remaining := parseGlobalFlags(raw, &args)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui", "chat":
		return CmdTUI, args

	case "history", "list", "ls":
		parseHistoryArgs(&args, remaining)
		return CmdHistory, args

	case "show":
		if len(remaining) > 0 {
			args.SessionID = remaining[0]
		}
		return CmdShow, args

	case "delete", "rm":
		if len(remaining) > 0 {
			args.SessionID = remaining[0]
		}
		return CmdDelete, args

	case "stats":
		return CmdStats, args

	case "export":
		parseExportArgs(&args, remaining)
		return CmdExport, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// parseGlobalFlags strips flags that apply to every command.
func parseGlobalFlags(raw []string, args *Args) []string {
	var remaining []string
	for _, arg := range raw {
		switch arg {
		case "--json":
			args.JSON = true
		case "--confirm", "-y":
			args.Confirm = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining
}

// parseHistoryArgs parses "history" flags: --query, --sort, --range.
func parseHistoryArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--query", "-q":
			if i+1 < len(remaining) {
				args.Query = remaining[i+1]
				i++
			}
		case "--sort", "-s":
			if i+1 < len(remaining) {
				args.Sort = remaining[i+1]
				i++
			}
		case "--range", "-r":
			if i+1 < len(remaining) {
				args.Range = remaining[i+1]
				i++
			}
		default:
			// Bare words become the search query.
			if !strings.HasPrefix(remaining[i], "-") && args.Query == "" {
				args.Query = remaining[i]
			}
		}
	}
}

// parseExportArgs parses "export <id> [--output path]".
func parseExportArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--output", "-o":
			if i+1 < len(remaining) {
				args.Output = remaining[i+1]
				i++
			}
		default:
			if !strings.HasPrefix(remaining[i], "-") && args.SessionID == "" {
				args.SessionID = remaining[i]
			}
		}
	}
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("chatvault %s\n", Version)
	fmt.Printf("  commit:  %s\n", GitCommit)
	fmt.Printf("  built:   %s\n", BuildDate)
	fmt.Printf("  go:      %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// PrintHelp prints usage information.
func PrintHelp() {
	fmt.Print(`chatvault - terminal chat with persistent conversation history

Usage:
  chatvault                      Launch the TUI (default)
  chatvault history [query]      List saved conversations
  chatvault show <id>            Print a conversation transcript
  chatvault delete <id>          Delete a conversation (requires --confirm)
  chatvault stats                Show collection statistics
  chatvault export <id>          Export a conversation as Markdown
  chatvault version              Show version information
  chatvault help                 Show this help

History flags:
  --query, -q TEXT    Search titles and message content
  --sort,  -s ORDER   recent | title | messages (default: recent)
  --range, -r RANGE   all | today | week | month (default: all)

Export flags:
  --output, -o PATH   Write to PATH instead of <id>.md

Global flags:
  --json              Output in JSON format
  --confirm, -y       Confirm destructive operations

Environment:
  CHATVAULT_DATA_DIR            Override the data directory
  CHATVAULT_ASSISTANT_URL       Override the assistant service URL
  CHATVAULT_CAPACITY            Override the collection capacity
  CHATVAULT_AUTOSAVE_DELAY_MS   Override the auto-save debounce delay
`)
}
