// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// A document is compiled, unified with a schema definition, validated, and
// then decoded either into a struct or into a generic map:
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	v, err := cueutil.Unify(schema, data, "#Config",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors carry the file name and a JSON-style path to the offending field,
// for example "config.cue: concurrency.assets: invalid value 0".
package cueutil
