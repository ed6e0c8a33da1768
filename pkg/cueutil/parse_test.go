// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"testing"
)

const testSchema = `
#Config: {
	group?: string & !=""
	modules?: [...{directory: string, artifact?: string}]
	strict?: bool
}
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	values, err := DecodeMap([]byte(testSchema), []byte(`
group: "org.example"
modules: [{directory: "lib"}]
`), "#Config", WithFilename("jpmsdeps.cue"))
	if err != nil {
		t.Fatalf("DecodeMap() error = %v", err)
	}
	if values["group"] != "org.example" {
		t.Errorf("group = %v", values["group"])
	}
	modules, ok := values["modules"].([]any)
	if !ok || len(modules) != 1 {
		t.Fatalf("modules = %#v", values["modules"])
	}
	if _, hasStrict := values["strict"]; hasStrict {
		t.Error("optional fields that are not set must not be decoded")
	}
}

func TestDecodeMap_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"syntax error", `group: "a`},
		{"wrong type", `strict: "yes"`},
		{"unknown field", `colour: "red"`},
		{"constraint", `group: ""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeMap([]byte(testSchema), []byte(tt.data), "#Config", WithFilename("bad.cue"))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if verr.File != "bad.cue" {
				t.Errorf("File = %q", verr.File)
			}
		})
	}
}

func TestUnify_SizeLimit(t *testing.T) {
	t.Parallel()

	_, err := Unify([]byte(testSchema), []byte(`group: "org.example"`), "#Config", WithMaxFileSize(4))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestUnify_MissingDefinition(t *testing.T) {
	t.Parallel()

	if _, err := Unify([]byte(testSchema), []byte(`{}`), "#Missing"); err == nil {
		t.Error("expected an error for a missing schema definition")
	}
}
