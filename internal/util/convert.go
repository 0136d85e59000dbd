// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for chatvault.
package util

import "strconv"

// IntToString converts an int to its decimal string form.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// FloatToString converts a float64 to a string with one decimal place.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
