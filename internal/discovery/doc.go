// SPDX-License-Identifier: MPL-2.0

// Package discovery locates MCP server files for a project.
//
// By default every regular file directly inside <project>/<scan_dir> whose
// name ends in <source_suffix> is a source. Sources are sorted by absolute
// path and numbered in that order; the loader folds them in the same order.
// When override paths are configured, directory scanning is skipped and the
// overrides are the sources, in the order given.
//
// Environment problems (missing or unreadable scan directory, unresolvable
// working directory) never fail discovery. They are returned as structured
// Diagnostics next to an empty result so the CLI decides how to render them.
package discovery
