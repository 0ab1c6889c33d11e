// SPDX-License-Identifier: MPL-2.0

// Package tui provides the interactive prompts used by mcpick.
// It wraps charmbracelet/huh: a multi-select for choosing servers and a
// single-line input for extra launcher arguments.
package tui
