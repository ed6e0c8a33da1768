// SPDX-License-Identifier: MPL-2.0

// Package testutil builds fake multi-unit Java builds on disk, fake archives
// and environment overrides for tests. Helpers fail the test immediately on
// setup errors.
package testutil
