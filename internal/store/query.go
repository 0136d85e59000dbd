// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the durable collection of chat sessions.
package store

import (
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/chatvault/internal/model"
)

// Query composition lives with the callers, not inside the Store: history
// views start from Search (or ListAll when the query is blank), filter by
// the lastUpdated window, then sort. These helpers keep that pipeline in
// one place.

// =============================================================================
// DATE FILTERS
// =============================================================================

// DateRange restricts sessions by when they were last updated.
type DateRange int

const (
	RangeAll DateRange = iota
	RangeToday
	RangeWeek  // last 7 days
	RangeMonth // last 30 days
)

// String returns a label for display.
func (r DateRange) String() string {
	switch r {
	case RangeToday:
		return "Today"
	case RangeWeek:
		return "Last 7 days"
	case RangeMonth:
		return "Last 30 days"
	default:
		return "All time"
	}
}

// Next cycles to the following range, wrapping back to RangeAll.
func (r DateRange) Next() DateRange {
	switch r {
	case RangeAll:
		return RangeToday
	case RangeToday:
		return RangeWeek
	case RangeWeek:
		return RangeMonth
	default:
		return RangeAll
	}
}

// FilterByUpdated keeps sessions whose LastUpdated falls within the range,
// measured against now.
func FilterByUpdated(sessions []model.ChatSession, r DateRange, now time.Time) []model.ChatSession {
	if r == RangeAll {
		return sessions
	}

	var cutoff time.Time
	switch r {
	case RangeToday:
		y, m, d := now.Date()
		cutoff = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case RangeWeek:
		cutoff = now.AddDate(0, 0, -7)
	case RangeMonth:
		cutoff = now.AddDate(0, 0, -30)
	}

	var filtered []model.ChatSession
	for _, s := range sessions {
		if !s.LastUpdated.Before(cutoff) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// =============================================================================
// SORT ORDERS
// =============================================================================

// SortOrder decides how a session list is presented.
type SortOrder int

const (
	SortRecent   SortOrder = iota // most recently updated first
	SortTitle                     // title lexicographic
	SortMessages                  // message count descending
)

// String returns a label for display.
func (o SortOrder) String() string {
	switch o {
	case SortTitle:
		return "Title"
	case SortMessages:
		return "Messages"
	default:
		return "Recent"
	}
}

// Next cycles to the following order, wrapping back to SortRecent.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortRecent:
		return SortTitle
	case SortTitle:
		return SortMessages
	default:
		return SortRecent
	}
}

// SortSessions orders sessions in place according to o.
func SortSessions(sessions []model.ChatSession, o SortOrder) {
	switch o {
	case SortTitle:
		sort.SliceStable(sessions, func(i, j int) bool {
			return strings.ToLower(sessions[i].Title) < strings.ToLower(sessions[j].Title)
		})
	case SortMessages:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].MessageCount > sessions[j].MessageCount
		})
	default:
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].LastUpdated.After(sessions[j].LastUpdated)
		})
	}
}

// =============================================================================
// PIPELINE
// =============================================================================

// QuerySessions runs the full caller-side pipeline: Search when query is
// non-blank else ListAll, then the date filter, then the sort.
func QuerySessions(s *Store, query string, r DateRange, o SortOrder) []model.ChatSession {
	var sessions []model.ChatSession
	if strings.TrimSpace(query) == "" {
		sessions = s.ListAll()
	} else {
		sessions = s.Search(query)
	}
	sessions = FilterByUpdated(sessions, r, time.Now())
	SortSessions(sessions, o)
	return sessions
}
