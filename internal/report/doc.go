// SPDX-License-Identifier: MPL-2.0

// Package report builds the read-only reports over descriptors and the
// mapping store: directive ordering, naming conventions, module path
// analysis, version recommendations and the mapping listing.
//
// Every report renders as plain text or, through Write, as JSON or YAML.
package report
