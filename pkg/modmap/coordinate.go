// SPDX-License-Identifier: MPL-2.0

package modmap

import (
	"errors"
	"fmt"
	"strings"
)

// CapabilitySeparator separates the primary coordinate from an additional
// capability artifact.
const CapabilitySeparator = "|"

// ErrInvalidCoordinate is the sentinel error wrapped by InvalidCoordinateError.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

type (
	// Coordinate is a `group:artifact` build coordinate, optionally followed by
	// `|feature` when the feature variant `group:artifact-feature` of the
	// component must be requested.
	Coordinate string

	// InvalidCoordinateError is returned when a coordinate does not have the
	// `group:artifact[|feature]` shape.
	InvalidCoordinateError struct {
		Value  Coordinate
		Reason string
	}
)

// NewCoordinate joins group and artifact.
func NewCoordinate(group, artifact string) Coordinate {
	return Coordinate(group + ":" + artifact)
}

// String returns the string representation of the Coordinate.
func (c Coordinate) String() string { return string(c) }

// Primary returns the coordinate without its capability part.
func (c Coordinate) Primary() Coordinate {
	primary, _, _ := strings.Cut(string(c), CapabilitySeparator)
	return Coordinate(primary)
}

// Group returns the group part of the primary coordinate.
func (c Coordinate) Group() string {
	group, _, _ := strings.Cut(string(c.Primary()), ":")
	return group
}

// Artifact returns the artifact part of the primary coordinate.
func (c Coordinate) Artifact() string {
	_, artifact, _ := strings.Cut(string(c.Primary()), ":")
	return artifact
}

// Capability returns the capability coordinate if the coordinate carries a
// feature: `group:artifact|feature` requests `group:artifact-feature`.
func (c Coordinate) Capability() (Coordinate, bool) {
	_, feature, found := strings.Cut(string(c), CapabilitySeparator)
	if !found || feature == "" {
		return "", false
	}
	return NewCoordinate(c.Group(), c.Artifact()+"-"+feature), true
}

// Validate returns an error if the coordinate is not `group:artifact[|feature]`.
func (c Coordinate) Validate() error {
	primary, capability, hasCapability := strings.Cut(string(c), CapabilitySeparator)
	group, artifact, found := strings.Cut(primary, ":")
	switch {
	case !found:
		return &InvalidCoordinateError{Value: c, Reason: "missing ':' between group and artifact"}
	case strings.TrimSpace(group) == "" || strings.TrimSpace(artifact) == "":
		return &InvalidCoordinateError{Value: c, Reason: "group and artifact must be non-empty"}
	case strings.Contains(artifact, ":"):
		return &InvalidCoordinateError{Value: c, Reason: "too many ':' separators"}
	case hasCapability && (capability == "" || strings.ContainsAny(capability, ":|")):
		return &InvalidCoordinateError{Value: c, Reason: "feature must be a plain name"}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidCoordinate for errors.Is() compatibility.
func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }
