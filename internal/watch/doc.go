// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs descriptor checks when module-info.java files or the
// project configuration change.
//
// Events are debounced: a burst of writes (an editor saving through a temp
// file, a branch switch) results in one callback carrying every changed path.
// Callbacks never overlap; changes that arrive while a callback runs are
// delivered in the next one.
package watch
