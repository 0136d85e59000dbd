// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for chatvault.
package util

import "strings"

// UNICODE: Rune-aware truncation preserves multi-byte characters.
// Truncating on byte offsets would corrupt UTF-8 sequences mid-character.

// TruncateRunes truncates s to at most maxRunes characters, appending "..."
// when truncation occurred.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// TruncateRunesNoEllipsis truncates s to at most maxRunes characters with no
// truncation marker.
func TruncateRunesNoEllipsis(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes])
}

// TruncateAtWord truncates s to at most maxRunes characters, backing off to
// the last space when the cut lands mid-word, provided that space is at rune
// index minRunes or later. "..." is appended whenever truncation occurred.
func TruncateAtWord(s string, maxRunes, minRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	cut := runes[:maxRunes]
	for i := len(cut) - 1; i >= minRunes; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + "..."
}

// CollapseWhitespace replaces newlines and carriage returns with spaces so a
// multi-line message can render on a single list row.
func CollapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// RuneLen returns the number of runes in s. Safer than len() for UTF-8.
func RuneLen(s string) int {
	return len([]rune(s))
}
