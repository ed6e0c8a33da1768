// SPDX-License-Identifier: MPL-2.0

package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jpmsdeps/jpmsdeps/pkg/javamod"
)

// ServicesDir is the provider configuration directory inside an output root.
const ServicesDir = "META-INF/services"

// MetaInfServices writes one provider configuration file per `provides`
// directive of d below dir/META-INF/services and returns the written paths
// in declaration order.
func MetaInfServices(d *javamod.Descriptor, dir string) ([]string, error) {
	services := d.Services()
	if len(services) == 0 {
		return nil, nil
	}
	target := filepath.Join(dir, filepath.FromSlash(ServicesDir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", target, err)
	}
	provides := d.Provides()
	written := make([]string, 0, len(services))
	for _, service := range services {
		path := filepath.Join(target, service)
		if err := os.WriteFile(path, []byte(strings.Join(provides[service], "\n")), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
