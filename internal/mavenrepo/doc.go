// SPDX-License-Identifier: MPL-2.0

// Package mavenrepo looks up published versions in a Maven repository
// through its maven-metadata.xml files.
package mavenrepo
