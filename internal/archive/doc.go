// SPDX-License-Identifier: MPL-2.0

// Package archive inspects jar files and class directories on a module
// path: the Automatic-Module-Name manifest attribute and the module-info
// class, including its multi-release location.
package archive
