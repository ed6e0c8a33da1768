// SPDX-License-Identifier: MPL-2.0

package javamod

import (
	"strings"
	"unicode"
)

// SourceSetToModuleName returns the conventional module name suffix of a
// build unit's source set: the dotted unit name for main, otherwise the dotted
// unit name followed by the dotted source-set name.
func SourceSetToModuleName(unitName, sourceSet string) string {
	if sourceSet == MainSourceSet || sourceSet == "" {
		return DottedCase(unitName)
	}
	return DottedCase(unitName) + "." + DottedCase(sourceSet)
}

// SourceSetToCapabilitySuffix returns the capability suffix of a secondary
// source set (kebab-case), and false for the main source set.
func SourceSetToCapabilitySuffix(sourceSet string) (string, bool) {
	if sourceSet == MainSourceSet || sourceSet == "" {
		return "", false
	}
	return KebabCase(sourceSet), true
}

// DottedCase converts camelCase and kebab-case to dotted.case.
func DottedCase(s string) string {
	return strings.ToLower(strings.Join(splitCamel(strings.ReplaceAll(s, "-", ".")), "."))
}

// KebabCase converts camelCase to kebab-case.
func KebabCase(s string) string {
	return strings.ToLower(strings.Join(splitCamel(s), "-"))
}

// splitCamel splits before an upper-case letter that follows a non-upper-case
// character, and before the last upper-case letter of an acronym that starts a
// new word ("testFixtures" -> test|Fixtures, "XMLParser" -> XML|Parser).
func splitCamel(s string) []string {
	runes := []rune(s)
	var parts []string
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsUpper(runes[i]) {
			continue
		}
		afterLower := !unicode.IsUpper(runes[i-1])
		beforeLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if afterLower || beforeLower {
			parts = append(parts, string(runes[start:i]))
			start = i
		}
	}
	return append(parts, string(runes[start:]))
}
