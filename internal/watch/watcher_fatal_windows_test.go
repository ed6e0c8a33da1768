// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"fmt"
	"syscall"
	"testing"
)

func TestIsFatalFsnotifyError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want bool
	}{
		"handle limit":        {err: errnoTooManyOpenFiles, want: true},
		"directory removed":   {err: fmt.Errorf("watch: %w", errnoInvalidHandle), want: true},
		"out of memory":       {err: errnoNotEnoughMemory, want: true},
		"access denied":       {err: syscall.Errno(5)},
		"unrelated error text": {err: fmt.Errorf("buffer overflow")},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if got := isFatalFsnotifyError(tt.err); got != tt.want {
				t.Errorf("isFatalFsnotifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
