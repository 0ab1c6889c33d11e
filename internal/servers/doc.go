// SPDX-License-Identifier: MPL-2.0

// Package servers models MCP server entries and the ordered, name-unique
// table they are merged into.
//
// An Entry keeps the two fields mcpick reads (command and args) as typed
// values and every other field verbatim in an ordered bag, so a merged
// document reproduces each entry as it was written. A Table iterates in
// first-insertion order; replacing an existing name keeps its position.
package servers
