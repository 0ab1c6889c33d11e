// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved, and
// remediation hints. The issue catalog holds Markdown help pages, rendered
// with glamour, that the CLI prints beneath fatal errors.
package issue
