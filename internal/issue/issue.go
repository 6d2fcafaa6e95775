// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"

	"phpvm/internal/installer"
	"phpvm/internal/manifest"
	"phpvm/internal/store"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestUnavailableId Id = iota + 1
	ManifestParseErrorId
	VersionNotFoundId
	DownloadFailedId
	ChecksumMismatchId
	CorruptArchiveId
	NotInstalledId
	VersionInUseId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, we keep docs for every issue type
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	manifestUnavailableIssue = &Issue{
		id: ManifestUnavailableId,
		mdMsg: `
# Could not reach the version manifest

Both the primary release endpoint and the mirror were unreachable.

## Things you can try
- Check your network connection and proxy settings
- Retry in a few minutes, the endpoints may be briefly down
- Point phpvm at a custom endpoint in your config:
~~~toml
[manifest]
primary_url = "https://releases.phpvm.dev/manifest.json"
~~~`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/manifest"},
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# The version manifest could not be parsed

The endpoint responded, but the body is not a valid manifest document.
This usually means a captive portal or proxy rewrote the response, or a
custom endpoint serves the wrong content.

## Things you can try
- Run with ` + "`--verbose`" + ` to see which endpoint responded
- If you configured a custom endpoint, verify it serves JSON of the form:
~~~json
{"versions": [{"version": "8.1.0", "url": "...", "sha256": "..."}]}
~~~`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/manifest"},
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# Version not found

The requested version has no record in the manifest.

## Things you can try
- List the installable versions:
~~~
$ phpvm list-remote
~~~
- Check for typos, versions must match exactly (e.g. ` + "`8.1.0`" + `, not ` + "`8.1`" + `)`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/versions"},
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Artifact download failed

The version manifest was fetched, but downloading the runtime archive failed.

## Things you can try
- Check your network connection and retry
- Run with ` + "`--verbose`" + ` to see the artifact URL`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/install"},
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Checksum mismatch

The downloaded archive does not match the digest declared in the manifest.
Nothing was extracted and the download was discarded.

This can mean a corrupted transfer, a stale mirror, or a tampered artifact.
phpvm never installs an artifact that fails verification.

## Things you can try
- Retry the install, transient corruption is the common cause
- If it persists, report it, the manifest and artifact disagree`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/integrity"},
	}

	corruptArchiveIssue = &Issue{
		id: CorruptArchiveId,
		mdMsg: `
# Corrupt archive

The archive extracted cleanly but does not contain ` + "`bin/php`" + ` where a
runtime build must have it. The partial installation was removed.

## Things you can try
- Retry the install
- If it persists, the published artifact is broken, report it`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/integrity"},
	}

	notInstalledIssue = &Issue{
		id: NotInstalledId,
		mdMsg: `
# Version not installed

The operation references a version that is absent from the store.

## Things you can try
- See what is installed:
~~~
$ phpvm list
~~~
- Install it first:
~~~
$ phpvm install <version>
~~~`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/install"},
	}

	versionInUseIssue = &Issue{
		id: VersionInUseId,
		mdMsg: `
# Version is in use

The version is either the global default or pinned by a ` + "`.php_version`" + `
file in the current directory, so it cannot be uninstalled.

## Things you can try
- Switch the global default first:
~~~
$ phpvm use <other-version>
~~~
- Or remove the pin file in this directory`,
		docLinks: []HttpLink{"https://phpvm.dev/docs/uninstall"},
	}

	issues = map[Id]*Issue{
		ManifestUnavailableId: manifestUnavailableIssue,
		ManifestParseErrorId:  manifestParseErrorIssue,
		VersionNotFoundId:     versionNotFoundIssue,
		DownloadFailedId:      downloadFailedIssue,
		ChecksumMismatchId:    checksumMismatchIssue,
		CorruptArchiveId:      corruptArchiveIssue,
		NotInstalledId:        notInstalledIssue,
		VersionInUseId:        versionInUseIssue,
	}
)

// Values returns all registered issues.
func Values() []*Issue {
	return maps.Values(issues)
}

// Get returns the issue registered for the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// ForError maps a core error to its registered issue via the sentinel the
// error wraps. ok is false for errors outside the taxonomy.
func ForError(err error) (*Issue, bool) {
	switch {
	case errors.Is(err, manifest.ErrParse):
		return manifestParseErrorIssue, true
	case errors.Is(err, manifest.ErrUnavailable):
		return manifestUnavailableIssue, true
	case errors.Is(err, installer.ErrVersionNotFound):
		return versionNotFoundIssue, true
	case errors.Is(err, installer.ErrDownloadFailed):
		return downloadFailedIssue, true
	case errors.Is(err, installer.ErrChecksumMismatch):
		return checksumMismatchIssue, true
	case errors.Is(err, installer.ErrCorruptArchive):
		return corruptArchiveIssue, true
	case errors.Is(err, store.ErrVersionInUse):
		return versionInUseIssue, true
	case errors.Is(err, store.ErrNotInstalled):
		return notInstalledIssue, true
	default:
		return nil, false
	}
}
