// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"runtime"
	"testing"
)

// MustSetenv sets the environment variable key to value and returns a
// cleanup function that restores the original value (or unsets it).
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		var err error
		if hadValue {
			err = os.Setenv(key, originalValue)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("failed to restore env %s: %v", key, err)
		}
	}
}

// SetConfigHome points the user configuration directory at dir, so
// $XDG_CONFIG_HOME/jpmsdeps/config.cue (or %AppData% on Windows) resolves
// inside a temporary directory. Tests using it must not run in parallel.
//
//	t.Cleanup(testutil.SetConfigHome(t, t.TempDir()))
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "AppData", dir)
	case "darwin":
		restoreXDG := MustSetenv(t, "XDG_CONFIG_HOME", dir)
		restoreHome := MustSetenv(t, "HOME", dir)
		return func() { restoreHome(); restoreXDG() }
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}
