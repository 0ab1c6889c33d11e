// SPDX-License-Identifier: MPL-2.0

// Package platform centralizes GOOS names used when resolving per-platform
// directories such as the configuration directory.
package platform
