// SPDX-License-Identifier: MPL-2.0

// Package loader reads discovered server files and merges their entries
// into one servers.Table.
//
// Files are read concurrently but folded strictly in source order, so the
// entry from the later source wins when a name repeats. Problems with a
// single file or a single entry become Diagnostics and never stop the rest
// of the merge.
package loader
