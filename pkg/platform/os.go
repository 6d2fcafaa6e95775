// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons, so path-selection code
// does not scatter the string literals.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
