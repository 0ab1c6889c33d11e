// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Theme represents the visual theme for TUI components.
type Theme string

const (
	// ThemeDefault uses the default huh theme.
	ThemeDefault Theme = "default"
	// ThemeCharm uses the Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula uses the Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin uses the Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 uses the Base16 theme.
	ThemeBase16 Theme = "base16"
)

// Config holds common configuration for TUI components.
type Config struct {
	// Theme specifies the visual theme to use.
	Theme Theme
	// Accessible enables accessible mode for screen readers.
	Accessible bool
	// Input is where answers are read from (nil for stdin).
	Input io.Reader
	// Output specifies where to write the component output (nil for auto).
	Output io.Writer
}

// DefaultConfig returns the default configuration for TUI components.
// It automatically enables accessible mode when stdin is not a terminal or
// the ACCESSIBLE environment variable is set.
//
// Prompts always render on stderr so that stdout carries only the written
// path, which keeps `claude --mcp-config "$(mcpick pick)"` working.
func DefaultConfig() Config {
	return Config{
		Theme:      ThemeDefault,
		Accessible: !isInputTerminal() || os.Getenv("ACCESSIBLE") != "",
		Output:     os.Stderr,
	}
}

// isInputTerminal returns true if stdin is connected to a terminal.
// Returns false when running inside pipes or CI.
func isInputTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// shouldUseAccessible returns true if accessible mode should be used.
// Even if cfg.Accessible is false, this returns true when stdin is not a
// terminal, since the full-screen form cannot read keys there.
func shouldUseAccessible(cfg Config) bool {
	return cfg.Accessible || !isInputTerminal()
}

// getOutputWriter returns cfg.Output or stderr.
func getOutputWriter(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	return os.Stderr
}

// getHuhTheme converts a Theme to a huh.Theme.
func getHuhTheme(t Theme) *huh.Theme {
	switch t {
	case ThemeCharm:
		return huh.ThemeCharm()
	case ThemeDracula:
		return huh.ThemeDracula()
	case ThemeCatppuccin:
		return huh.ThemeCatppuccin()
	case ThemeBase16:
		return huh.ThemeBase16()
	default:
		return huh.ThemeBase()
	}
}

// newForm applies cfg to a form.
func newForm(cfg Config, groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(getHuhTheme(cfg.Theme)).
		WithAccessible(shouldUseAccessible(cfg)).
		WithOutput(getOutputWriter(cfg))
	if cfg.Input != nil {
		form = form.WithInput(cfg.Input)
	}
	return form
}
