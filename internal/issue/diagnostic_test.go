// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"testing"
)

func TestSeverity_Validate(t *testing.T) {
	t.Parallel()

	for _, s := range []Severity{SeverityWarning, SeverityError} {
		if err := s.Validate(); err != nil {
			t.Errorf("Severity(%q).Validate() = %v", s, err)
		}
	}
	if err := Severity("fatal").Validate(); !errors.Is(err, ErrInvalidSeverity) {
		t.Errorf("Severity(fatal).Validate() = %v, want ErrInvalidSeverity", err)
	}
}

func TestNewDiagnostic(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	d := NewDiagnostic(SeverityWarning, MissingVersionId, "No version defined in catalog").
		WithModule("org.slf4j").
		WithPath("app/src/main/java/module-info.java").
		WithCause(cause)

	if d.Code != "missing-version" {
		t.Errorf("Code = %q, want missing-version", d.Code)
	}
	if d.Module != "org.slf4j" || d.Path == "" || d.Cause != cause {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.String() != "[warning] No version defined in catalog" {
		t.Errorf("String() = %q", d.String())
	}

	if NewDiagnostic(SeverityError, Id(99), "x").Code != "" {
		t.Error("unknown issue should leave Code empty")
	}
}
