// SPDX-License-Identifier: MPL-2.0

// Package activate decides which installed PHP version is in effect and
// mutates the two activation mechanisms: the per-directory .php_version pin
// and (via the store) the global "current" pointer.
//
// Resolution precedence is the system's key semantic contract: a pin in the
// exact working directory always wins over the global pointer, and the pin
// is never searched for in ancestor directories.
package activate
