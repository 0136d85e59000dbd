// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeutil normalizes, validates, and formats point-in-time values.
package timeutil

import (
	"testing"
	"time"
)

// =============================================================================
// COERCION TESTS
// =============================================================================

func TestCoerce_TimeValue(t *testing.T) {
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got := Coerce(want)
	if !got.Equal(want) {
		t.Errorf("Coerce(time.Time) = %v, want %v", got, want)
	}
}

func TestCoerce_ZeroTimeSubstitutesNow(t *testing.T) {
	before := time.Now()
	got := Coerce(time.Time{})
	if got.Before(before) {
		t.Errorf("Coerce(zero time) should substitute the current time, got %v", got)
	}
}

func TestCoerceString_RFC3339(t *testing.T) {
	got := CoerceString("2024-06-01T12:30:45Z")
	want := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("CoerceString = %v, want %v", got, want)
	}
}

func TestCoerceString_DateOnly(t *testing.T) {
	got := CoerceString("2024-06-01")
	if got.Year() != 2024 || got.Month() != time.June || got.Day() != 1 {
		t.Errorf("CoerceString(date only) = %v", got)
	}
}

func TestCoerceString_Garbage(t *testing.T) {
	before := time.Now()
	got := CoerceString("not a timestamp")
	if got.Before(before) {
		t.Errorf("CoerceString(garbage) should substitute the current time, got %v", got)
	}
}

func TestCoerce_EpochSeconds(t *testing.T) {
	got := Coerce(int64(1717243845))
	if got.UTC().Year() != 2024 {
		t.Errorf("Coerce(epoch seconds) year = %d, want 2024", got.UTC().Year())
	}
}

func TestCoerce_EpochMillis(t *testing.T) {
	got := Coerce(int64(1717243845000))
	if got.UTC().Year() != 2024 {
		t.Errorf("Coerce(epoch millis) year = %d, want 2024", got.UTC().Year())
	}
}

func TestIsValid(t *testing.T) {
	if IsValid(time.Time{}) {
		t.Error("zero time should be invalid")
	}
	if !IsValid(time.Now()) {
		t.Error("current time should be valid")
	}
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestFormatShortTime_Invalid(t *testing.T) {
	if got := FormatShortTime(time.Time{}); got != InvalidTime {
		t.Errorf("FormatShortTime(zero) = %q, want %q", got, InvalidTime)
	}
}

func TestFormatShortDate(t *testing.T) {
	ts := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatShortDate(ts); got != "Jun 1, 2024" {
		t.Errorf("FormatShortDate = %q, want %q", got, "Jun 1, 2024")
	}
}

func TestFormatRelative_Tiers(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"yesterday", now.Add(-25 * time.Hour), "Yesterday"},
		{"days", now.AddDate(0, 0, -3), "3 days ago"},
		{"weeks", now.AddDate(0, 0, -10), "1 weeks ago"},
		{"absolute", now.AddDate(0, -2, 0), "Apr 15, 2024"},
	}

	for _, tc := range tests {
		if got := FormatRelative(tc.t, now); got != tc.want {
			t.Errorf("%s: FormatRelative = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatRelative_FutureClampsToJustNow(t *testing.T) {
	now := time.Now()
	if got := FormatRelative(now.Add(time.Hour), now); got != "Just now" {
		t.Errorf("future timestamps should read %q, got %q", "Just now", got)
	}
}

func TestFormatRelative_Invalid(t *testing.T) {
	if got := FormatRelative(time.Time{}, time.Now()); got != UnknownTime {
		t.Errorf("FormatRelative(zero) = %q, want %q", got, UnknownTime)
	}
}
