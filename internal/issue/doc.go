// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of Markdown
// explanations for the failures users hit most often: unmapped modules,
// conflicting baseline tables, naming and ordering violations, and broken
// configuration.
package issue
