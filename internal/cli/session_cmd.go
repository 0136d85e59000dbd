// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - Conversation management CLI commands for chatvault.
//
// Command: history | show | delete | stats
//
// Examples:
//   chatvault history                       List all conversations
//   chatvault history zakat                 Search titles and content
//   chatvault history --sort title          Sort by title
//   chatvault history --range week          Last 7 days only
//   chatvault show abc123                   Print a transcript
//   chatvault delete abc123 --confirm       Delete a conversation
//   chatvault stats --json                  Statistics in JSON format
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/chatvault/internal/model"
	"github.com/jeranaias/chatvault/internal/store"
	"github.com/jeranaias/chatvault/internal/timeutil"
	"github.com/jeranaias/chatvault/internal/util"
)

// =============================================================================
// HISTORY COMMAND
// =============================================================================

// HandleHistory lists saved conversations, honoring the query, sort, and
// range flags.
func HandleHistory(sessions *store.Store, args Args) error {
	sortOrd, err := parseSortOrder(args.Sort)
	if err != nil {
		return err
	}
	dateRng, err := parseDateRange(args.Range)
	if err != nil {
		return err
	}

	results := store.QuerySessions(sessions, args.Query, dateRng, sortOrd)

	if args.JSON {
		return printJSON(results)
	}

	if len(results) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	fmt.Printf("%-10s  %-32s  %8s  %s\n", "ID", "TITLE", "MESSAGES", "UPDATED")
	fmt.Println(strings.Repeat("-", 72))
	for _, s := range results {
		fmt.Printf("%-10s  %-32s  %8s  %s\n",
			shortID(s.ID),
			runewidth.FillRight(runewidth.Truncate(util.CollapseWhitespace(s.Title), 32, "…"), 32),
			util.IntToString(s.MessageCount),
			timeutil.Relative(s.LastUpdated),
		)
	}
	fmt.Printf("\n%d conversation(s)\n", len(results))
	return nil
}

func parseSortOrder(s string) (store.SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "recent":
		return store.SortRecent, nil
	case "title":
		return store.SortTitle, nil
	case "messages":
		return store.SortMessages, nil
	default:
		return store.SortRecent, fmt.Errorf("unknown sort order: %s (want recent, title, or messages)", s)
	}
}

func parseDateRange(s string) (store.DateRange, error) {
	switch strings.ToLower(s) {
	case "", "all":
		return store.RangeAll, nil
	case "today":
		return store.RangeToday, nil
	case "week":
		return store.RangeWeek, nil
	case "month":
		return store.RangeMonth, nil
	default:
		return store.RangeAll, fmt.Errorf("unknown range: %s (want all, today, week, or month)", s)
	}
}

// =============================================================================
// SHOW COMMAND
// =============================================================================

// HandleShow prints a conversation transcript to stdout.
func HandleShow(sessions *store.Store, args Args) error {
	s, ok := resolveSession(sessions, args.SessionID)
	if !ok {
		return fmt.Errorf("no conversation matches %q", args.SessionID)
	}

	if args.JSON {
		return printJSON(s)
	}

	fmt.Printf("# %s\n\n", s.Title)
	fmt.Printf("Updated %s · %d messages\n\n", timeutil.Relative(s.LastUpdated), s.MessageCount)
	for _, msg := range s.Messages {
		fmt.Printf("[%s] %s\n%s\n\n",
			timeutil.FormatShortTime(msg.Timestamp),
			msg.Sender.DisplayName(),
			msg.Content,
		)
	}
	return nil
}

// =============================================================================
// DELETE COMMAND
// =============================================================================

// HandleDelete removes a conversation. Destructive, so --confirm is
// required.
func HandleDelete(sessions *store.Store, args Args) error {
	if args.SessionID == "" {
		return fmt.Errorf("usage: chatvault delete <id> --confirm")
	}

	s, ok := resolveSession(sessions, args.SessionID)
	if !ok {
		return fmt.Errorf("no conversation matches %q", args.SessionID)
	}

	if !args.Confirm {
		fmt.Printf("Would delete %q (%d messages). Re-run with --confirm.\n", s.Title, s.MessageCount)
		return nil
	}

	if !sessions.Remove(s.ID) {
		return fmt.Errorf("failed to delete conversation %s", s.ID)
	}
	fmt.Printf("Deleted %q\n", s.Title)
	return nil
}

// =============================================================================
// STATS COMMAND
// =============================================================================

// HandleStats prints aggregate collection statistics.
func HandleStats(sessions *store.Store, args Args) error {
	stats := sessions.Statistics()

	if args.JSON {
		return printJSON(map[string]any{
			"total_sessions":               stats.TotalSessions,
			"total_messages":               stats.TotalMessages,
			"average_messages_per_session": stats.AverageMessagesPerSession,
			"oldest_updated":               stats.OldestUpdated,
			"newest_updated":               stats.NewestUpdated,
		})
	}

	fmt.Println("Conversation statistics")
	fmt.Println(strings.Repeat("-", 32))
	fmt.Printf("Conversations:  %d\n", stats.TotalSessions)
	fmt.Printf("Messages:       %d\n", stats.TotalMessages)
	fmt.Printf("Avg per conv:   %s\n", util.FloatToString(stats.AverageMessagesPerSession))
	if stats.TotalSessions > 0 {
		fmt.Printf("Oldest update:  %s\n", timeutil.FormatShortDate(stats.OldestUpdated))
		fmt.Printf("Newest update:  %s\n", timeutil.Relative(stats.NewestUpdated))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// resolveSession finds a session by full ID or unique prefix.
func resolveSession(sessions *store.Store, id string) (model.ChatSession, bool) {
	if id == "" {
		return model.ChatSession{}, false
	}
	if s, ok := sessions.Get(id); ok {
		return s, true
	}

	var match model.ChatSession
	found := 0
	for _, s := range sessions.ListAll() {
		if strings.HasPrefix(s.ID, id) {
			match = s
			found++
		}
	}
	if found == 1 {
		return match, true
	}
	return model.ChatSession{}, false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
