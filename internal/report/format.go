// SPDX-License-Identifier: MPL-2.0

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FormatText is the human-readable layout.
	FormatText Format = "text"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects how a report is written.
	Format string

	// Texter is implemented by every report.
	Texter interface {
		Text() string
	}

	// InvalidFormatError is returned for unknown format names.
	InvalidFormatError struct {
		Value Format
	}
)

// Formats returns the accepted format names.
func Formats() []Format { return []Format{FormatText, FormatJSON, FormatYAML} }

// Validate returns an error if the format is unknown.
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Write renders r to w in the requested format.
func Write(w io.Writer, format Format, r Texter) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, r.Text())
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return &InvalidFormatError{Value: format}
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (expected one of: text, json, yaml)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// heading writes a title underlined with '=' of the same width.
func heading(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n")
}
