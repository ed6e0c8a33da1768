// SPDX-License-Identifier: MPL-2.0

package localmod

import (
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

// UnitName returns the last segment of a build-unit path (":a:b" -> "b",
// "a/b" -> "b").
func UnitName(unitPath string) string {
	trimmed := strings.TrimRight(unitPath, ":/")
	if i := strings.LastIndexAny(trimmed, ":/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// UnitPathFromDir converts a slash-separated directory relative to the build
// root into a unit path (":services:billing").
func UnitPathFromDir(relDir string) string {
	parts := strings.FieldsFunc(relDir, func(r rune) bool { return r == '/' || r == '\\' })
	return ":" + strings.Join(parts, ":")
}

// SourceSetToModuleName is the conventional module name of a unit's source
// set without the build-wide prefix.
func SourceSetToModuleName(unitName, sourceSet string) string {
	return javamod.SourceSetToModuleName(unitName, sourceSet)
}

// SourceSetToCapabilitySuffix returns the capability suffix of a secondary
// source set.
func SourceSetToCapabilitySuffix(sourceSet string) (string, bool) {
	return javamod.SourceSetToCapabilitySuffix(sourceSet)
}
