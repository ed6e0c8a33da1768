// SPDX-License-Identifier: MPL-2.0

// Package generate derives files from descriptors and dependency lists:
// module-info.java from scoped dependencies, META-INF/services provider
// configuration files, a version catalog [libraries] table and the
// dependencies block of a build file.
package generate
