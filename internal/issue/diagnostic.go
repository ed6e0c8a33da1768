// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates an advisory finding; the run continues.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a finding that fails strict runs.
	SeverityError Severity = "error"
)

// ErrInvalidSeverity is returned by Severity.Validate for unknown levels.
var ErrInvalidSeverity = errors.New("invalid diagnostic severity")

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is an advisory result returned to callers (rather than
	// written to stderr) so the CLI decides how to render it.
	Diagnostic struct {
		Severity Severity `json:"severity" yaml:"severity"`
		// Issue links the catalog entry explaining the finding.
		Issue Id `json:"-" yaml:"-"`
		// Code is the catalog slug, e.g. "unresolved-module".
		Code    string `json:"code" yaml:"code"`
		Message string `json:"message" yaml:"message"`
		// Module is the module name the finding is about (optional).
		Module string `json:"module,omitempty" yaml:"module,omitempty"`
		// Path is the descriptor or file involved (optional).
		Path  string `json:"path,omitempty" yaml:"path,omitempty"`
		Cause error  `json:"-" yaml:"-"`
	}
)

// Validate returns an error for severities other than warning and error.
func (s Severity) Validate() error {
	switch s {
	case SeverityWarning, SeverityError:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidSeverity, string(s))
}

// NewDiagnostic creates a diagnostic linked to a catalog issue.
func NewDiagnostic(severity Severity, id Id, message string) Diagnostic {
	d := Diagnostic{Severity: severity, Issue: id, Message: message}
	if known := Get(id); known != nil {
		d.Code = known.Slug()
	}
	return d
}

// WithModule returns a copy with the module set.
func (d Diagnostic) WithModule(module string) Diagnostic {
	d.Module = module
	return d
}

// WithPath returns a copy with the path set.
func (d Diagnostic) WithPath(path string) Diagnostic {
	d.Path = path
	return d
}

// WithCause returns a copy with the cause set.
func (d Diagnostic) WithCause(err error) Diagnostic {
	d.Cause = err
	return d
}

// String renders "[warning] message".
func (d Diagnostic) String() string {
	return "[" + string(d.Severity) + "] " + d.Message
}
