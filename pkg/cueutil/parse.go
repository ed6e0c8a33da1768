// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Unify compiles data, unifies it with the definition found at defPath in
// schema (e.g. "#Config") and validates the result.
func Unify(schema, data []byte, defPath string, opts ...Option) (cue.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", defPath, def.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), o.filename)
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return cue.Value{}, FormatError(err, o.filename)
	}
	return unified, nil
}

// DecodeMap validates data like Unify and decodes the result into a generic
// map, the shape Viper's MergeConfigMap expects.
func DecodeMap(schema, data []byte, defPath string, opts ...Option) (map[string]any, error) {
	unified, err := Unify(schema, data, defPath, opts...)
	if err != nil {
		return nil, err
	}
	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		o := defaultOptions()
		for _, opt := range opts {
			opt(&o)
		}
		return nil, FormatError(err, o.filename)
	}
	return values, nil
}
