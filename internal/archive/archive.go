// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"slices"
	"strings"
)

const (
	// AutomaticModuleNameAttribute names an automatic module in the manifest.
	AutomaticModuleNameAttribute = "Automatic-Module-Name"
	// MultiReleaseAttribute marks a multi-release jar.
	MultiReleaseAttribute = "Multi-Release"
	// ModuleInfoClass is the compiled module descriptor.
	ModuleInfoClass = "module-info.class"

	manifestPath = "META-INF/MANIFEST.MF"
)

var (
	// ErrClassFormat is returned for a module-info.class that cannot be read.
	ErrClassFormat = errors.New("malformed module-info.class")

	versionedModuleInfo = regexp.MustCompile(`^META-INF/versions/\d+/module-info\.class$`)
)

// Info is what an archive reveals about its module identity.
type Info struct {
	Path string
	// AutomaticModuleName is the manifest attribute, "" when absent.
	AutomaticModuleName string
	// MultiRelease reports the Multi-Release manifest attribute.
	MultiRelease bool
	// RealModule reports a module-info.class at the root or, for
	// multi-release jars, below META-INF/versions/<n>/.
	RealModule bool
	// DescriptorName is the name declared by module-info.class.
	DescriptorName string
}

// Name returns the module name: the automatic name wins over the
// descriptor, "" for plain jars.
func (i Info) Name() string {
	if i.AutomaticModuleName != "" {
		return i.AutomaticModuleName
	}
	return i.DescriptorName
}

// IsModule reports whether the archive can be put on the module path
// under a stable name.
func (i Info) IsModule() bool { return i.Name() != "" }

// Inspect reads a jar file or a directory of classes.
func Inspect(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("inspect %s: %w", path, err)
	}
	if stat.IsDir() {
		return inspectFS(path, os.DirFS(path))
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Info{}, fmt.Errorf("inspect %s: %w", path, err)
	}
	defer func() { _ = zr.Close() }()
	return inspectFS(path, zr)
}

// ReadModuleName has the shape of the archive introspection function used
// by module path analysis: the module name ("" for plain jars) and whether
// the archive contains a module descriptor.
func ReadModuleName(path string) (string, bool, error) {
	info, err := Inspect(path)
	if err != nil {
		return "", false, err
	}
	return info.Name(), info.RealModule, nil
}

// IsRealModule reports whether the archive contains a module-info.class.
func IsRealModule(path string) (bool, error) {
	info, err := Inspect(path)
	return info.RealModule, err
}

func inspectFS(path string, fsys fs.FS) (Info, error) {
	info := Info{Path: path}
	if manifest, err := fs.ReadFile(fsys, manifestPath); err == nil {
		attrs := parseManifest(manifest)
		info.AutomaticModuleName = attrs[AutomaticModuleNameAttribute]
		info.MultiRelease = strings.EqualFold(attrs[MultiReleaseAttribute], "true")
	}

	candidates := []string{ModuleInfoClass}
	if info.MultiRelease {
		versioned, _ := fs.Glob(fsys, "META-INF/versions/*/"+ModuleInfoClass)
		slices.Sort(versioned)
		for _, v := range versioned {
			if versionedModuleInfo.MatchString(v) {
				candidates = append(candidates, v)
			}
		}
	}
	for _, c := range candidates {
		class, err := fs.ReadFile(fsys, c)
		if err != nil {
			continue
		}
		info.RealModule = true
		name, err := ModuleNameFromClass(class)
		if err != nil {
			if info.AutomaticModuleName != "" {
				break
			}
			return info, fmt.Errorf("%s!/%s: %w", path, c, err)
		}
		info.DescriptorName = name
		break
	}
	return info, nil
}

// parseManifest reads main-section attributes. Continuation lines start
// with a single space.
func parseManifest(data []byte) map[string]string {
	attrs := make(map[string]string)
	var last string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, " ") && last != "" {
			attrs[last] += line[1:]
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		last = strings.TrimSpace(key)
		attrs[last] = strings.TrimSpace(value)
	}
	return attrs
}
