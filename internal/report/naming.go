// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

type (
	// NamingTarget is one descriptor to validate against its unit and
	// source set.
	NamingTarget struct {
		Unit       string
		SourceSet  string
		Descriptor *javamod.Descriptor
	}

	// NamingResult is the outcome of CheckNaming.
	NamingResult struct {
		// Prefixes maps "unit/sourceSet" to the derived module name prefix.
		Prefixes map[string]string `json:"prefixes" yaml:"prefixes"`
		// Violations holds the messages of every mismatch.
		Violations []string `json:"violations,omitempty" yaml:"violations,omitempty"`
		err        error
	}
)

// CheckNaming runs the strict naming-convention validation over targets.
// Empty descriptors are skipped. The returned result always lists the
// prefixes that could be derived; Err joins every NamingConventionError.
func CheckNaming(targets []NamingTarget) *NamingResult {
	res := &NamingResult{Prefixes: make(map[string]string)}
	var errs []error
	for _, t := range targets {
		if t.Descriptor == nil || t.Descriptor.IsEmpty() {
			continue
		}
		prefix, _, err := t.Descriptor.ModuleNamePrefix(t.Unit, t.SourceSet, true)
		if err != nil {
			errs = append(errs, err)
			res.Violations = append(res.Violations, err.Error())
			continue
		}
		res.Prefixes[t.Unit+"/"+t.SourceSet] = prefix
	}
	res.err = errors.Join(errs...)
	return res
}

// Err returns the joined naming errors, nil when every module conforms.
func (r *NamingResult) Err() error { return r.err }

// Text renders the violations one per line.
func (r *NamingResult) Text() string {
	if len(r.Violations) == 0 {
		return ""
	}
	return strings.Join(r.Violations, "\n") + "\n"
}
