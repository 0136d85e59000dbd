// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the durable collection of chat sessions.
package store

import (
	"testing"
	"time"

	"github.com/jeranaias/chatvault/internal/model"
)

func sessionUpdatedAt(id string, updated time.Time, count int) model.ChatSession {
	return model.ChatSession{ID: id, Title: id, LastUpdated: updated, MessageCount: count}
}

// =============================================================================
// DATE FILTER TESTS
// =============================================================================

func TestFilterByUpdated(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	sessions := []model.ChatSession{
		sessionUpdatedAt("today", now.Add(-2*time.Hour), 2),
		sessionUpdatedAt("this-week", now.AddDate(0, 0, -3), 2),
		sessionUpdatedAt("this-month", now.AddDate(0, 0, -20), 2),
		sessionUpdatedAt("ancient", now.AddDate(0, -6, 0), 2),
	}

	tests := []struct {
		r    DateRange
		want int
	}{
		{RangeAll, 4},
		{RangeToday, 1},
		{RangeWeek, 2},
		{RangeMonth, 3},
	}

	for _, tc := range tests {
		got := FilterByUpdated(sessions, tc.r, now)
		if len(got) != tc.want {
			t.Errorf("%s: got %d sessions, want %d", tc.r, len(got), tc.want)
		}
	}
}

func TestDateRange_Next_Cycles(t *testing.T) {
	r := RangeAll
	for i := 0; i < 4; i++ {
		r = r.Next()
	}
	if r != RangeAll {
		t.Errorf("cycling four times should return to RangeAll, got %v", r)
	}
}

// =============================================================================
// SORT TESTS
// =============================================================================

func TestSortSessions_Recent(t *testing.T) {
	now := time.Now()
	sessions := []model.ChatSession{
		sessionUpdatedAt("old", now.Add(-2*time.Hour), 1),
		sessionUpdatedAt("new", now, 1),
		sessionUpdatedAt("mid", now.Add(-time.Hour), 1),
	}

	SortSessions(sessions, SortRecent)
	if sessions[0].ID != "new" || sessions[2].ID != "old" {
		t.Errorf("SortRecent order = %s, %s, %s", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}
}

func TestSortSessions_Title(t *testing.T) {
	now := time.Now()
	sessions := []model.ChatSession{
		{ID: "1", Title: "zakat", LastUpdated: now},
		{ID: "2", Title: "Fasting", LastUpdated: now},
		{ID: "3", Title: "prayer", LastUpdated: now},
	}

	SortSessions(sessions, SortTitle)
	if sessions[0].Title != "Fasting" || sessions[2].Title != "zakat" {
		t.Errorf("SortTitle order = %s, %s, %s", sessions[0].Title, sessions[1].Title, sessions[2].Title)
	}
}

func TestSortSessions_Messages(t *testing.T) {
	now := time.Now()
	sessions := []model.ChatSession{
		sessionUpdatedAt("small", now, 2),
		sessionUpdatedAt("big", now, 9),
		sessionUpdatedAt("medium", now, 5),
	}

	SortSessions(sessions, SortMessages)
	if sessions[0].ID != "big" || sessions[2].ID != "small" {
		t.Errorf("SortMessages order = %s, %s, %s", sessions[0].ID, sessions[1].ID, sessions[2].ID)
	}
}

// =============================================================================
// PIPELINE TESTS
// =============================================================================

func TestQuerySessions_BlankQueryListsAll(t *testing.T) {
	s, _ := newTestStore(t)
	s.Upsert(CreateID(), conversation("alpha"))
	s.Upsert(CreateID(), conversation("beta"))

	got := QuerySessions(s, "   ", RangeAll, SortRecent)
	if len(got) != 2 {
		t.Errorf("blank query should list all sessions, got %d", len(got))
	}
}

func TestQuerySessions_SearchThenSort(t *testing.T) {
	s, _ := newTestStore(t)
	s.UpsertTitled(CreateID(), conversation("one"), "Prayer times")
	s.UpsertTitled(CreateID(), conversation("two"), "Prayer etiquette")
	s.UpsertTitled(CreateID(), conversation("three"), "Unrelated")

	got := QuerySessions(s, "prayer", RangeAll, SortTitle)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Title != "Prayer etiquette" {
		t.Errorf("first result = %q, want title sort", got[0].Title)
	}
}
