// SPDX-License-Identifier: MPL-2.0

// Package modmap maps Java module names to build coordinates.
//
// A Mapping is assembled in two phases. A Builder accumulates explicit
// overrides and prefix rules on top of an immutable Baseline; Build freezes
// them into a Mapping that is safe for concurrent reads. Resolution consults,
// in order, the overrides (last write wins), the prefix rules (first inserted
// match wins) and the baseline tables. Unresolved names are reported through
// Result rather than as errors so callers can decide whether the miss is fatal.
package modmap
