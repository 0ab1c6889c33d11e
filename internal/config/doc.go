// SPDX-License-Identifier: MPL-2.0

// Package config handles mcpick configuration using Viper with CUE as the file format.
//
// Configuration is loaded from config.cue in the platform config directory
// ($XDG_CONFIG_HOME/mcpick on Linux, ~/Library/Application Support/mcpick on
// macOS, %APPDATA%\mcpick on Windows) or from an explicit --config path. The
// file is validated against an embedded CUE schema (config_schema.cue).
// MCPICK_* environment variables override file values; built-in defaults
// fill everything else.
package config
