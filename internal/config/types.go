// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// ThemeDefault is huh's default theme.
	ThemeDefault Theme = "default"
	// ThemeCharm is huh's Charm theme.
	ThemeCharm Theme = "charm"
	// ThemeDracula is huh's Dracula theme.
	ThemeDracula Theme = "dracula"
	// ThemeCatppuccin is huh's Catppuccin theme.
	ThemeCatppuccin Theme = "catppuccin"
	// ThemeBase16 is huh's Base16 theme.
	ThemeBase16 Theme = "base16"

	// DefaultScanDir is the directory under the project root holding server files.
	DefaultScanDir = ".claude"
	// DefaultSourceSuffix is the file name suffix that marks a server file.
	DefaultSourceSuffix = "mcpServers.json"
	// DefaultLauncherCommand is the program started by `mcpick run`.
	DefaultLauncherCommand = "claude"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidTheme is returned when a Theme value is not recognized.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidSourceSuffix is returned when a source suffix is empty or contains a path separator.
	ErrInvalidSourceSuffix = errors.New("invalid source suffix")
	// ErrInvalidScanDir is returned when the scan directory is empty or whitespace-only.
	ErrInvalidScanDir = errors.New("invalid scan dir")
	// ErrInvalidLauncherConfig is the sentinel error wrapped by InvalidLauncherConfigError.
	ErrInvalidLauncherConfig = errors.New("invalid launcher config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Theme names the huh theme used by the selection prompt.
	Theme string

	// InvalidThemeError is returned when a Theme value is not recognized.
	InvalidThemeError struct {
		Value Theme
	}

	// SourceSuffix is the file name suffix matched inside the scan directory.
	SourceSuffix string

	// InvalidSourceSuffixError is returned when a SourceSuffix is empty or
	// contains a path separator.
	InvalidSourceSuffixError struct {
		Value SourceSuffix
	}

	// ScanDir is the directory, relative to the project root unless absolute,
	// that discovery lists.
	ScanDir string

	// InvalidScanDirError is returned when a ScanDir is empty or whitespace-only.
	InvalidScanDirError struct {
		Value ScanDir
	}

	// InvalidLauncherConfigError is returned when a LauncherConfig has invalid fields.
	InvalidLauncherConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ScanDir is listed for server files (default ".claude").
		ScanDir ScanDir `json:"scan_dir" mapstructure:"scan_dir"`
		// SourceSuffix selects server files inside ScanDir (default "mcpServers.json").
		SourceSuffix SourceSuffix `json:"source_suffix" mapstructure:"source_suffix"`
		// OverridePath, when set, is the only source and discovery is skipped.
		OverridePath string `json:"override_path" mapstructure:"override_path"`
		// OutputDir receives merged documents. Empty means os.TempDir().
		OutputDir string `json:"output_dir" mapstructure:"output_dir"`
		// Launcher configures `mcpick run`.
		Launcher LauncherConfig `json:"launcher" mapstructure:"launcher"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// LauncherConfig describes the process started by `mcpick run`.
	LauncherConfig struct {
		// Command is the program name or path (default "claude").
		Command string `json:"command" mapstructure:"command"`
		// Args are prepended to the user-supplied arguments.
		Args []string `json:"args" mapstructure:"args"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Theme selects the huh theme for the picker.
		Theme Theme `json:"theme" mapstructure:"theme"`
		// ColorScheme sets the color scheme preference
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Accessible forces huh's accessible (line-based) mode.
		Accessible bool `json:"accessible" mapstructure:"accessible"`
	}
)

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined values.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the Theme.
func (t Theme) String() string { return string(t) }

// IsValid returns whether the Theme is one of the defined values.
func (t Theme) IsValid() (bool, []error) {
	switch t {
	case ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16:
		return true, nil
	default:
		return false, []error{&InvalidThemeError{Value: t}}
	}
}

// Error implements the error interface.
func (e *InvalidThemeError) Error() string {
	return fmt.Sprintf("invalid theme %q (valid: default, charm, dracula, catppuccin, base16)", e.Value)
}

// Unwrap returns ErrInvalidTheme for errors.Is() compatibility.
func (e *InvalidThemeError) Unwrap() error { return ErrInvalidTheme }

// String returns the string representation of the SourceSuffix.
func (s SourceSuffix) String() string { return string(s) }

// IsValid returns whether the SourceSuffix is non-empty and a bare file name fragment.
func (s SourceSuffix) IsValid() (bool, []error) {
	if strings.TrimSpace(string(s)) == "" || strings.ContainsAny(string(s), `/\`) {
		return false, []error{&InvalidSourceSuffixError{Value: s}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidSourceSuffixError) Error() string {
	return fmt.Sprintf("invalid source suffix %q (must be non-empty and contain no path separator)", e.Value)
}

// Unwrap returns ErrInvalidSourceSuffix for errors.Is() compatibility.
func (e *InvalidSourceSuffixError) Unwrap() error { return ErrInvalidSourceSuffix }

// String returns the string representation of the ScanDir.
func (d ScanDir) String() string { return string(d) }

// IsValid returns whether the ScanDir is non-empty.
func (d ScanDir) IsValid() (bool, []error) {
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidScanDirError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidScanDirError) Error() string {
	return fmt.Sprintf("invalid scan dir %q (must not be empty)", e.Value)
}

// Unwrap returns ErrInvalidScanDir for errors.Is() compatibility.
func (e *InvalidScanDirError) Unwrap() error { return ErrInvalidScanDir }

// IsValid returns whether the LauncherConfig has a command.
func (c LauncherConfig) IsValid() (bool, []error) {
	if strings.TrimSpace(c.Command) == "" {
		return false, []error{&InvalidLauncherConfigError{
			FieldErrors: []error{errors.New("launcher.command must not be empty")},
		}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidLauncherConfigError) Error() string {
	return fmt.Sprintf("invalid launcher config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLauncherConfig for errors.Is() compatibility.
func (e *InvalidLauncherConfigError) Unwrap() error { return ErrInvalidLauncherConfig }

// IsValid returns whether the UIConfig has valid fields.
// Bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Theme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ScanDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.SourceSuffix.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Launcher.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ScanDir:      DefaultScanDir,
		SourceSuffix: DefaultSourceSuffix,
		Launcher: LauncherConfig{
			Command: DefaultLauncherCommand,
			Args:    []string{},
		},
		UI: UIConfig{
			Theme:       ThemeDefault,
			ColorScheme: ColorSchemeAuto,
		},
	}
}
