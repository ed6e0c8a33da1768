// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for jpmsdeps.
//
// This package implements the Cobra command hierarchy: lookups against the
// module name mapping, dependency wiring of every discovered build unit,
// descriptor checks, module path analysis, version recommendations, file
// generation and configuration management.
package cmd
