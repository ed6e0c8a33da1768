// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by the descriptor,
// mapping and reporting packages. It imports only the standard library.
package types
