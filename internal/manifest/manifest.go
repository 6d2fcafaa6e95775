// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrParse indicates the manifest body was retrieved but is not a valid
// manifest document (malformed JSON or records with missing fields).
var ErrParse = errors.New("malformed version manifest")

type (
	// Record describes one installable PHP version: where its artifact
	// lives and the SHA256 digest the download must match. Records are
	// immutable and sourced fresh from the manifest on every install.
	Record struct {
		Version string `json:"version"` // Version identifier, e.g., "8.1.0"
		URL     string `json:"url"`     // Direct download URL for the tar.gz artifact
		SHA256  string `json:"sha256"`  // Expected lowercase hex SHA256 digest
	}

	// Manifest is the ordered list of installable version records as
	// published by the release endpoint.
	Manifest struct {
		Versions []Record `json:"versions"`
	}
)

// Parse decodes a manifest document from r. The document must be a JSON
// object with a top-level "versions" array whose entries all carry non-empty
// version, url, and sha256 fields; any other shape fails with ErrParse.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest

	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if m.Versions == nil {
		return nil, fmt.Errorf("%w: missing \"versions\" array", ErrParse)
	}

	for i, rec := range m.Versions {
		if rec.Version == "" || rec.URL == "" || rec.SHA256 == "" {
			return nil, fmt.Errorf("%w: record %d is missing required fields", ErrParse, i)
		}
	}

	return &m, nil
}

// Lookup scans the manifest for an exact version identifier match. Absence
// is not an error at this layer; the caller decides how to surface it.
func (m *Manifest) Lookup(version string) (Record, bool) {
	for _, rec := range m.Versions {
		if rec.Version == version {
			return rec, true
		}
	}
	return Record{}, false
}
