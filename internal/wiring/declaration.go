// SPDX-License-Identifier: MPL-2.0

package wiring

import (
	"fmt"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
	"github.com/jpmsdeps/jpmsdeps/pkg/modmap"
)

type (
	// Declaration is one dependency edge. Exactly one of Project (a build
	// unit path) and Coordinate is set.
	Declaration struct {
		Unit       string            `json:"unit" yaml:"unit"`
		SourceSet  string            `json:"source_set" yaml:"source_set"`
		Scope      string            `json:"scope" yaml:"scope"`
		Directive  javamod.Directive `json:"directive" yaml:"directive"`
		Module     string            `json:"module" yaml:"module"`
		Project    string            `json:"project,omitempty" yaml:"project,omitempty"`
		Coordinate modmap.Coordinate `json:"coordinate,omitempty" yaml:"coordinate,omitempty"`
		Version    string            `json:"version,omitempty" yaml:"version,omitempty"`
		// Capability is requested in addition to the primary artifact.
		Capability string `json:"capability,omitempty" yaml:"capability,omitempty"`
	}

	// DependencySink receives declarations. It stands for the host build's
	// dependency configuration model.
	DependencySink interface {
		Declare(d Declaration) error
	}

	// Collector is an in-memory DependencySink.
	Collector struct {
		Declarations []Declaration
	}
)

// Declare implements DependencySink.
func (c *Collector) Declare(d Declaration) error {
	c.Declarations = append(c.Declarations, d)
	return nil
}

// Notation renders the declaration the way a build script would:
// project(":app") or "group:artifact:version".
func (d Declaration) Notation() string {
	var n string
	if d.Project != "" {
		n = fmt.Sprintf("project(%q)", d.Project)
	} else {
		gav := d.Coordinate.Primary().String()
		if d.Version != "" {
			gav += ":" + d.Version
		}
		n = fmt.Sprintf("%q", gav)
	}
	if d.Capability != "" {
		n += fmt.Sprintf(" { capabilities { requireCapability(%q) } }", d.Capability)
	}
	return n
}

// String renders `scope(notation)`.
func (d Declaration) String() string {
	return d.Scope + "(" + d.Notation() + ")"
}
