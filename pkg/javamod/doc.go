// SPDX-License-Identifier: MPL-2.0

// Package javamod parses Java module descriptors (module-info.java) into an
// immutable Descriptor value.
//
// Parsing never fails on content: text without a module declaration yields
// Empty. Line and block comments are tolerated anywhere, and the block comment
// /*runtime*/ directly after a requires keyword marks a runtime-only
// dependency. Simple names inside provides...with clauses are resolved against
// the single-type imports of the same file.
package javamod
