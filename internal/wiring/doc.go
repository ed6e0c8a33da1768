// SPDX-License-Identifier: MPL-2.0

// Package wiring turns the requires directives of a descriptor into
// dependency declarations for a build unit.
//
// Each required module is classified in a fixed order: JDK modules need no
// declaration, modules of the build are wired to their build unit, and all
// other names are resolved to external coordinates through the mapping. A
// module without a mapping is fatal in strict mode and an advisory
// Diagnostic otherwise.
package wiring
