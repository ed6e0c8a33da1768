// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jpmsdeps/jpmsdeps/internal/testutil"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name     string
		spec     testutil.JarSpec
		wantName string
		wantReal bool
	}{
		{"plain jar", testutil.JarSpec{}, "", false},
		{"automatic module", testutil.JarSpec{AutomaticModuleName: "org.apache.commons.io"}, "org.apache.commons.io", false},
		{"real module", testutil.JarSpec{ModuleInfo: true, DescriptorName: "org.slf4j"}, "org.slf4j", true},
		{"automatic name wins", testutil.JarSpec{AutomaticModuleName: "auto.name", ModuleInfo: true, DescriptorName: "class.name"}, "auto.name", true},
		{"multi-release", testutil.JarSpec{MultiReleaseModuleInfo: true, DescriptorName: "com.fasterxml.jackson.core"}, "com.fasterxml.jackson.core", true},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.WriteJar(t, dir, tt.name+".jar", tt.spec)
			info, err := Inspect(path)
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			if info.Name() != tt.wantName || info.RealModule != tt.wantReal {
				t.Errorf("case %d: Inspect() = %+v, want name %q real %v", i, info, tt.wantName, tt.wantReal)
			}
			if info.IsModule() != (tt.wantName != "") {
				t.Errorf("IsModule() = %v", info.IsModule())
			}

			name, isReal, err := ReadModuleName(path)
			if err != nil || name != tt.wantName || isReal != tt.wantReal {
				t.Errorf("ReadModuleName() = %q, %v, %v", name, isReal, err)
			}
		})
	}
}

func TestInspect_VersionedDescriptorNeedsMultiReleaseFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	testutil.WriteTree(t, classes, map[string]string{
		"META-INF/versions/17/module-info.class": string(testutil.ModuleInfoClass("org.example.app")),
		"org/example/App.class":                  "\xca\xfe\xba\xbe",
	})
	isReal, err := IsRealModule(classes)
	if err != nil {
		t.Fatal(err)
	}
	if isReal {
		t.Error("versioned descriptors count only for Multi-Release archives")
	}
}

func TestInspect_ClassesDirectory(t *testing.T) {
	t.Parallel()

	classes := t.TempDir()
	if err := os.WriteFile(filepath.Join(classes, ModuleInfoClass), testutil.ModuleInfoClass("org.example.lib"), 0o644); err != nil {
		t.Fatal(err)
	}
	name, isReal, err := ReadModuleName(classes)
	if err != nil || name != "org.example.lib" || !isReal {
		t.Errorf("ReadModuleName() = %q, %v, %v", name, isReal, err)
	}
}

func TestInspect_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Inspect(filepath.Join(dir, "missing.jar")); err == nil {
		t.Error("missing archive should fail")
	}

	notZip := filepath.Join(dir, "broken.jar")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(notZip); err == nil {
		t.Error("corrupt archive should fail")
	}

	noAttr := testutil.WriteJar(t, dir, "no-attr.jar", testutil.JarSpec{ModuleInfo: true})
	if _, _, err := ReadModuleName(noAttr); !errors.Is(err, ErrClassFormat) {
		t.Errorf("expected ErrClassFormat, got %v", err)
	}
}

func TestModuleNameFromClass(t *testing.T) {
	t.Parallel()

	name, err := ModuleNameFromClass(testutil.ModuleInfoClass("java.base"))
	if err != nil || name != "java.base" {
		t.Errorf("ModuleNameFromClass() = %q, %v", name, err)
	}

	valid := testutil.ModuleInfoClass("a.b")
	for _, data := range [][]byte{nil, {0xca, 0xfe}, valid[:len(valid)-15], {0, 0, 0, 0, 0, 0, 0, 0}} {
		if _, err := ModuleNameFromClass(data); !errors.Is(err, ErrClassFormat) {
			t.Errorf("ModuleNameFromClass(%x) error = %v, want ErrClassFormat", data, err)
		}
	}
}

func TestParseManifest(t *testing.T) {
	t.Parallel()

	attrs := parseManifest([]byte("Manifest-Version: 1.0\r\nAutomatic-Module-Name: org.exam\r\n ple.long\r\nMulti-Release: true\r\n\r\nName: section\r\nIgnored: yes\r\n"))
	if attrs[AutomaticModuleNameAttribute] != "org.example.long" {
		t.Errorf("continuation lines: %q", attrs[AutomaticModuleNameAttribute])
	}
	if attrs[MultiReleaseAttribute] != "true" {
		t.Errorf("Multi-Release = %q", attrs[MultiReleaseAttribute])
	}
	if _, ok := attrs["Ignored"]; ok {
		t.Error("only the main section is read")
	}
}
