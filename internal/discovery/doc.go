// SPDX-License-Identifier: MPL-2.0

// Package discovery finds the build units of a multi-unit Java build and
// their module descriptors.
//
// A unit is either listed explicitly (config "modules") or found as a direct
// child of a discovery root (config "directories") that contains at least one
// src/<sourceSet>/java/module-info.java. The unit path is ":" followed by its
// artifact name, which defaults to the directory name.
//
// File organization:
//   - discovery.go: Discovery, options and the directory walk
//   - register.go: feeding discovered units into a localmod.Registry
package discovery
