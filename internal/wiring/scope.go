// SPDX-License-Identifier: MPL-2.0

package wiring

import (
	"strings"
	"unicode"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

// Dependency scopes of the main source set, one per requires directive.
const (
	// ScopeImplementation is the scope of a plain requires.
	ScopeImplementation = "implementation"
	// ScopeAPI is the scope of requires transitive.
	ScopeAPI = "api"
	// ScopeCompileOnly is the scope of requires static.
	ScopeCompileOnly = "compileOnly"
	// ScopeCompileOnlyAPI is the scope of requires static transitive.
	ScopeCompileOnlyAPI = "compileOnlyApi"
	// ScopeRuntimeOnly is the scope of requires /*runtime*/.
	ScopeRuntimeOnly = "runtimeOnly"
)

var scopes = map[javamod.Directive]string{
	javamod.Requires:                 ScopeImplementation,
	javamod.RequiresTransitive:       ScopeAPI,
	javamod.RequiresStatic:           ScopeCompileOnly,
	javamod.RequiresStaticTransitive: ScopeCompileOnlyAPI,
	javamod.RequiresRuntime:          ScopeRuntimeOnly,
}

// ScopeFor returns the dependency scope a directive maps to in a source set:
// "implementation" for requires in main, "testImplementation" in test.
func ScopeFor(d javamod.Directive, sourceSet string) string {
	base := scopes[d]
	if sourceSet == "" || sourceSet == javamod.MainSourceSet {
		return base
	}
	return sourceSet + capitalize(base)
}

// DirectiveFor is the inverse of ScopeFor for the main source set.
func DirectiveFor(scope string) (javamod.Directive, bool) {
	for d, s := range scopes {
		if strings.EqualFold(s, scope) {
			return d, true
		}
	}
	return 0, false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
