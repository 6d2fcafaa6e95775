// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities, chiefly
// the runtime.GOOS name constants used when picking config and state paths.
package platform
