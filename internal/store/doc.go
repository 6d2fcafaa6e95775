// SPDX-License-Identifier: MPL-2.0

// Package store manages the on-disk registry of installed PHP versions.
//
// Layout under the store root:
//
//	<root>/versions/<version>/   one directory per installed version
//	<root>/versions/<version>/bin/php   required entry point
//	<root>/current               symlink to the globally active version
//
// The store is an injected value with an explicit root path rather than
// ambient global state, so every operation can be tested against a
// temporary root.
package store
