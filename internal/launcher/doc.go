// SPDX-License-Identifier: MPL-2.0

// Package launcher starts the MCP client with a generated config.
//
// The command line is <command> <configured args> <user args>
// --mcp-config <path>. User args typed as one line are split with POSIX
// shell rules, and dry runs print the command line shell-quoted.
package launcher
