// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when MCP server files change.
//
// A Watcher monitors one scan directory (non-recursively, like discovery)
// plus its parent, so creating or removing the scan directory itself is
// noticed too. Events within the debounce window are coalesced so the
// callback fires once with the full set of changed names.
package watch
