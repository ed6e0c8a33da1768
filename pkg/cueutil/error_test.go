// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "test.cue"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with file", func(t *testing.T) {
		t.Parallel()

		original := errors.New("some error")
		err := FormatError(original, "test.cue")
		if !errors.Is(err, original) {
			t.Errorf("error should wrap the original, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "test.cue: ") {
			t.Errorf("error should start with the file, got %v", err)
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			t.Errorf("non-CUE error must not become a *ValidationError, got %v", err)
		}
	})

	t.Run("I/O error keeps its identity", func(t *testing.T) {
		t.Parallel()

		err := FormatError(fmt.Errorf("read: %w", fs.ErrNotExist), "missing.cue")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("errors.Is(err, fs.ErrNotExist) = false for %v", err)
		}
	})

	t.Run("CUE error lists field paths", func(t *testing.T) {
		t.Parallel()

		ctx := cuecontext.New()
		v := ctx.CompileString(`group: string, group: 1`)
		err := FormatError(v.Validate(), "jpmsdeps.cue")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T: %v", err, err)
		}
		if len(verr.Fields) == 0 || verr.Fields[0].Path != "group" {
			t.Errorf("Fields = %+v, want a failure at group", verr.Fields)
		}
	})
}

func TestJSONPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single element", []string{"group"}, "group"},
		{"nested", []string{"version_catalog", "path"}, "version_catalog.path"},
		{"index", []string{"modules", "0", "group"}, "modules[0].group"},
		{"trailing index", []string{"directories", "1", "exclusions", "3"}, "directories[1].exclusions[3]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := jsonPath(tt.path); got != tt.want {
				t.Errorf("jsonPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 100), 100, "a.cue"); err != nil {
		t.Errorf("data at the limit should pass, got %v", err)
	}
	err := CheckFileSize(make([]byte, 101), 100, "a.cue")
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	for _, want := range []string{"a.cue", "101", "100"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err, want)
		}
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	single := &ValidationError{File: "jpmsdeps.cue", Fields: []FieldError{{Path: "group", Message: "conflicting values"}}}
	if got, want := single.Error(), "jpmsdeps.cue: group: conflicting values"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	multi := &ValidationError{File: "jpmsdeps.cue", Fields: []FieldError{
		{Message: "syntax error"},
		{Path: "modules[0].directory", Message: "incomplete value"},
	}}
	if !strings.Contains(multi.Error(), "validation failed:\n  syntax error\n  modules[0].directory: incomplete value") {
		t.Errorf("Error() = %q", multi.Error())
	}
	if !errors.Is(multi, ErrInvalidDocument) {
		t.Error("ValidationError should wrap ErrInvalidDocument")
	}
}
