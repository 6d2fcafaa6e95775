// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error presentation: the ActionableError
// type carrying operation/resource/suggestion context, and a registry of
// known failure classes with markdown guidance rendered through glamour.
package issue
