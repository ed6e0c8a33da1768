// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"

	"github.com/jpmsdeps/jpmsdeps/internal/issue"
	"github.com/jpmsdeps/jpmsdeps/internal/localmod"
)

// Register records the module of every discovered source set in reg.
// Duplicate module names and unparsable descriptors become diagnostics;
// other failures abort.
func Register(reg *localmod.Registry, units []Unit) ([]issue.Diagnostic, error) {
	var diags []issue.Diagnostic
	for _, u := range units {
		for _, set := range u.SourceSets {
			_, err := reg.Register(u.Path, set.DescriptorPath, u.Artifact, u.Group, set.Name)
			var dup *localmod.DuplicateLocalModuleError
			switch {
			case err == nil:
			case errors.As(err, &dup):
				diags = append(diags, issue.NewDiagnostic(issue.SeverityError, issue.DuplicateLocalModuleId,
					dup.Error()).WithModule(dup.Module).WithPath(set.DescriptorPath).WithCause(err))
			case errors.Is(err, localmod.ErrNoDescriptor):
				diags = append(diags, issue.NewDiagnostic(issue.SeverityWarning, issue.DescriptorNotFoundId,
					fmt.Sprintf("no module declaration found in %s", set.DescriptorPath)).WithPath(set.DescriptorPath).WithCause(err))
			default:
				return diags, err
			}
		}
	}
	return diags, nil
}
