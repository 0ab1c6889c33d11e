// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event. Editors that write a temp file and rename it produce
// several events for one save.
const defaultDebounce = 300 * time.Millisecond

// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// ScanDir is the absolute directory holding server files.
		ScanDir string

		// Pattern is a doublestar pattern matched against base names in
		// ScanDir (e.g., "*mcpServers.json").
		Pattern string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes ANSI clear-screen sequences to Stdout before each
		// callback. Callers should only enable it when Stdout is a terminal.
		ClearScreen bool

		// OnChange is called after the debounce window closes with the sorted,
		// deduplicated base names that changed. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr default to io.Discard when nil.
		Stdout io.Writer
		Stderr io.Writer
	}

	// InvalidWatchConfigError is returned when a Config has invalid fields.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// Validate checks ScanDir and Pattern.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ScanDir) == "" {
		errs = append(errs, errors.New("scan dir must not be empty"))
	} else if !filepath.IsAbs(c.ScanDir) {
		errs = append(errs, fmt.Errorf("scan dir %q must be absolute", c.ScanDir))
	}
	if strings.TrimSpace(c.Pattern) == "" {
		errs = append(errs, errors.New("pattern must not be empty"))
	} else if !doublestar.ValidatePattern(c.Pattern) {
		errs = append(errs, fmt.Errorf("pattern %q is not a valid glob", c.Pattern))
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidWatchConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid watch config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }
