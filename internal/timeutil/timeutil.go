// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package timeutil normalizes, validates, and formats point-in-time values.
package timeutil

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// SENTINELS
// =============================================================================

// Sentinel strings returned by formatting functions instead of an error.
// Formatting is total: callers never have to handle a failure.
const (
	InvalidTime = "Invalid time"
	UnknownTime = "Unknown time"
)

// layouts accepted by CoerceString, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// =============================================================================
// COERCION
// =============================================================================

// Coerce converts an arbitrary value into a valid time.Time.
// Accepted inputs: time.Time, ISO-ish strings, and numeric epoch values
// (seconds or milliseconds). Anything unparseable yields the current time;
// Coerce never fails.
func Coerce(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		if IsValid(t) {
			return t
		}
		return time.Now()
	case *time.Time:
		if t != nil && IsValid(*t) {
			return *t
		}
		return time.Now()
	case string:
		return CoerceString(t)
	case int:
		return fromEpoch(int64(t))
	case int64:
		return fromEpoch(t)
	case float64:
		return fromEpoch(int64(t))
	default:
		return time.Now()
	}
}

// CoerceString parses a string into a valid time.Time, substituting the
// current time when the string cannot be parsed. This is the fast path used
// by the session record codec when rehydrating stored timestamps.
func CoerceString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil && IsValid(t) {
			return t
		}
	}

	// Numeric epoch stored as a string.
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpoch(n)
	}

	return time.Now()
}

// fromEpoch interprets n as epoch seconds, or milliseconds when the
// magnitude is too large to be a plausible seconds value.
func fromEpoch(n int64) time.Time {
	if n <= 0 {
		return time.Now()
	}
	// Values beyond year ~5000 in seconds are treated as milliseconds.
	const msThreshold = 100_000_000_000
	var t time.Time
	if n >= msThreshold {
		t = time.UnixMilli(n)
	} else {
		t = time.Unix(n, 0)
	}
	if !IsValid(t) {
		return time.Now()
	}
	return t
}

// IsValid reports whether t is a usable point in time.
// The zero value and times before the Unix epoch are rejected.
func IsValid(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.Unix() > 0
}

// =============================================================================
// ABSOLUTE FORMATTING
// =============================================================================

// FormatShortTime formats t as a short clock time, e.g. "3:04 PM".
func FormatShortTime(t time.Time) string {
	if !IsValid(t) {
		return InvalidTime
	}
	return t.Format("3:04 PM")
}

// FormatShortDate formats t as a short date, e.g. "Jan 2, 2006".
func FormatShortDate(t time.Time) string {
	if !IsValid(t) {
		return InvalidTime
	}
	return t.Format("Jan 2, 2006")
}

// =============================================================================
// RELATIVE FORMATTING
// =============================================================================

// FormatRelative formats t relative to now using human tiers:
// "Just now" (<1 min), "{n}m ago" (<60 min), "{n}h ago" (<24h),
// "Yesterday" (exactly one calendar day back), "{n} days ago" (<7 days),
// "{n} weeks ago" (<30 days), otherwise an absolute short date.
func FormatRelative(t, now time.Time) string {
	if !IsValid(t) || !IsValid(now) {
		return UnknownTime
	}

	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return strconv.Itoa(int(diff.Minutes())) + "m ago"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff.Hours())) + "h ago"
	}

	days := calendarDaysBetween(t, now)
	switch {
	case days == 1:
		return "Yesterday"
	case days < 7:
		return strconv.Itoa(days) + " days ago"
	case days < 30:
		return strconv.Itoa(days/7) + " weeks ago"
	default:
		return FormatShortDate(t)
	}
}

// Relative formats t against the current clock.
func Relative(t time.Time) string {
	return FormatRelative(t, time.Now())
}

// calendarDaysBetween counts whole calendar days from t to now, so a
// message sent at 23:55 reads "Yesterday" ten minutes later.
func calendarDaysBetween(t, now time.Time) int {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	start := time.Date(ty, tm, td, 0, 0, 0, 0, t.Location())
	end := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	return int(end.Sub(start) / (24 * time.Hour))
}
