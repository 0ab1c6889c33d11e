// SPDX-License-Identifier: MPL-2.0

package discovery

import "fmt"

const (
	// SeverityWarning indicates a recoverable warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal error diagnostic.
	SeverityError Severity = "error"
)

// Diagnostic codes produced by discovery.
const (
	CodeScanDirMissing        = "scan_dir_missing"
	CodeScanDirUnreadable     = "scan_dir_unreadable"
	CodeBaseDirUnresolved     = "base_dir_unresolved"
	CodeSourceEntryUnreadable = "source_entry_unreadable"
	// CodeConfigLoadFailed is produced by the CLI when config.cue cannot be
	// loaded and defaults are used instead.
	CodeConfigLoadFailed = "config_load_failed"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic represents a structured diagnostic that is returned to
	// callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "scan_dir_missing").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// String returns "severity [code] message (path)".
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	if d.Path != "" {
		s += " (" + d.Path + ")"
	}
	return s
}
