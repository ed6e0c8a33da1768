// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates files below root. Keys are slash-separated relative
// paths; parent directories are created as needed.
func WriteTree(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// WriteDescriptor writes <root>/<unitDir>/src/<sourceSet>/java/module-info.java
// and returns its path.
func WriteDescriptor(t testing.TB, root, unitDir, sourceSet, content string) string {
	t.Helper()
	rel := filepath.ToSlash(filepath.Join(unitDir, "src", sourceSet, "java", "module-info.java"))
	WriteTree(t, root, map[string]string{rel: content})
	return filepath.Join(root, filepath.FromSlash(rel))
}
