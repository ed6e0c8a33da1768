// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema.
//
// Configuration files are compiled, unified with a schema definition and
// decoded into a generic map that can be merged into Viper:
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	values, err := cueutil.DecodeMap(schema, data, "#Config",
//	    cueutil.WithFilename("jpmsdeps.cue"))
//
// Validation failures are reported as *ValidationError values whose message
// lists every offending field in JSON-path notation (modules[0].directory).
package cueutil
