// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

type (
	// JarSpec describes a fake archive for WriteJar.
	JarSpec struct {
		// AutomaticModuleName is written to META-INF/MANIFEST.MF when set.
		AutomaticModuleName string
		// ModuleInfo adds a module-info.class entry declaring DescriptorName.
		ModuleInfo bool
		// MultiReleaseModuleInfo marks the jar Multi-Release and adds
		// META-INF/versions/11/module-info.class instead.
		MultiReleaseModuleInfo bool
		// DescriptorName is the module declared by module-info.class.
		// Empty writes a class file without a Module attribute.
		DescriptorName string
	}

	// FakeArchiveInfo is the canned answer of a FakeArchiveReader.
	FakeArchiveInfo struct {
		Name       string
		RealModule bool
		Err        error
	}

	// FakeArchiveReader answers archive introspection from a map keyed by
	// file base name; unknown archives have no module name.
	FakeArchiveReader map[string]FakeArchiveInfo
)

// WriteJar writes a zip archive with the requested entries into dir.
func WriteJar(t testing.TB, dir, name string, spec JarSpec) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	w := zip.NewWriter(f)
	add := func(entry, content string) {
		fw, err := w.Create(entry)
		if err != nil {
			t.Fatalf("failed to add %s: %v", entry, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write %s: %v", entry, err)
		}
	}
	manifest := "Manifest-Version: 1.0\r\n"
	if spec.AutomaticModuleName != "" {
		manifest += "Automatic-Module-Name: " + spec.AutomaticModuleName + "\r\n"
	}
	if spec.MultiReleaseModuleInfo {
		manifest += "Multi-Release: true\r\n"
	}
	add("META-INF/MANIFEST.MF", manifest+"\r\n")
	if spec.ModuleInfo {
		add("module-info.class", string(ModuleInfoClass(spec.DescriptorName)))
	}
	if spec.MultiReleaseModuleInfo {
		add("META-INF/versions/11/module-info.class", string(ModuleInfoClass(spec.DescriptorName)))
	}
	add("org/example/Placeholder.class", "\xca\xfe\xba\xbe")
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close %s: %v", path, err)
	}
	return path
}

// ModuleInfoClass returns a minimal compiled module descriptor declaring
// name. An empty name yields a class without a Module attribute.
func ModuleInfoClass(name string) []byte {
	var b []byte
	u2 := func(v int) { b = append(b, byte(v>>8), byte(v)) }
	u4 := func(v uint32) { u2(int(v >> 16)); u2(int(v & 0xffff)) }
	utf8 := func(s string) { b = append(b, 1); u2(len(s)); b = append(b, s...) }

	u4(0xCAFEBABE)
	u2(0)  // minor
	u2(53) // major, Java 9
	u2(6)  // constant pool count
	utf8("module-info")
	b = append(b, 7) // #2 Class #1
	u2(1)
	utf8("Module")
	utf8(name)
	b = append(b, 19) // #5 Module #4
	u2(4)
	u2(0x8000) // ACC_MODULE
	u2(2)      // this class
	u2(0)      // super class
	u2(0)      // interfaces
	u2(0)      // fields
	u2(0)      // methods
	if name == "" {
		u2(0)
		return b
	}
	u2(1)
	u2(3)  // "Module"
	u4(16) // attribute length
	u2(5)  // module name
	for range 7 {
		u2(0) // flags, version and empty directive tables
	}
	return b
}

// ReadModuleName implements the archive introspection function signature.
func (f FakeArchiveReader) ReadModuleName(path string) (string, bool, error) {
	info, ok := f[filepath.Base(path)]
	if !ok {
		return "", false, nil
	}
	return info.Name, info.RealModule, info.Err
}
