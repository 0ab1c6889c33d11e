// SPDX-License-Identifier: MPL-2.0

// Package selector turns a merged server table into a written MCP config.
//
// Describe builds the choices shown to the user, Pick asks a Prompter which
// of them to keep, the Materializer writes the kept entries to a new file,
// and Pipeline runs discovery, loading, picking and writing in order.
// Nothing is written until the selection step has completed.
package selector
