// SPDX-License-Identifier: MPL-2.0

package javamod

import "slices"

// platformModules is the closed set of modules shipped with the JDK.
var platformModules = []string{
	"java.base",
	"java.compiler",
	"java.datatransfer",
	"java.desktop",
	"java.instrument",
	"java.logging",
	"java.management",
	"java.management.rmi",
	"java.naming",
	"java.net.http",
	"java.prefs",
	"java.rmi",
	"java.scripting",
	"java.se",
	"java.security.jgss",
	"java.security.sasl",
	"java.smartcardio",
	"java.sql",
	"java.sql.rowset",
	"java.transaction.xa",
	"java.xml",
	"java.xml.crypto",
	"jdk.accessibility",
	"jdk.attach",
	"jdk.charsets",
	"jdk.compiler",
	"jdk.crypto.cryptoki",
	"jdk.crypto.ec",
	"jdk.dynalink",
	"jdk.editpad",
	"jdk.hotspot.agent",
	"jdk.httpserver",
	"jdk.incubator.foreign",
	"jdk.incubator.vector",
	"jdk.jartool",
	"jdk.javadoc",
	"jdk.jcmd",
	"jdk.jconsole",
	"jdk.jdeps",
	"jdk.jdi",
	"jdk.jdwp.agent",
	"jdk.jfr",
	"jdk.jlink",
	"jdk.jpackage",
	"jdk.jshell",
	"jdk.jsobject",
	"jdk.jstatd",
	"jdk.localedata",
	"jdk.management",
	"jdk.management.agent",
	"jdk.management.jfr",
	"jdk.naming.dns",
	"jdk.naming.rmi",
	"jdk.net",
	"jdk.nio.mapmode",
	"jdk.sctp",
	"jdk.security.auth",
	"jdk.security.jgss",
	"jdk.xml.dom",
	"jdk.zipfs",
}

// IsPlatformModule reports whether name is a JDK module that needs no
// dependency declaration.
func IsPlatformModule(name string) bool {
	_, found := slices.BinarySearch(platformModules, name)
	return found
}

// PlatformModules returns the sorted JDK module names.
func PlatformModules() []string { return slices.Clone(platformModules) }
