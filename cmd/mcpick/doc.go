// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for mcpick.
//
// The root command is built by NewRootCommand from an App, the composition
// root that holds the configuration provider, the pick pipeline, the
// interactive prompts and the launcher. Commands never reach for globals;
// tests build an App with injected Dependencies.
package cmd
