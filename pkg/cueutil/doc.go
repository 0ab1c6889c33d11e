// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE helpers used to read mcpick's config.cue:
// schema unification into a plain map, error formatting with JSON-path
// prefixes, and an input size guard.
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	values, err := cueutil.DecodeMap(schema, data, "#Config", "config.cue")
//	if err != nil {
//	    return err // includes the offending field path
//	}
package cueutil
