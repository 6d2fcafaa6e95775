// SPDX-License-Identifier: MPL-2.0

// Package manifest retrieves and parses the phpvm version manifest: the
// authoritative JSON list of installable PHP versions, their artifact URLs,
// and their expected SHA256 digests.
//
// Retrieval tries an ordered list of sources: the primary release endpoint
// first, then a mirror that requires a distinguishing request header. Only
// when every source fails does the fetch surface ErrUnavailable; a body that
// downloads but does not parse is a terminal ErrParse and is never retried
// against the next source.
package manifest
