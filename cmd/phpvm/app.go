// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"phpvm/internal/installer"
	"phpvm/internal/manifest"
	"phpvm/internal/store"
)

// newStore builds the version store from the active configuration.
func newStore() *store.Store {
	return store.New(activeConfig().RootDir)
}

// newManifestClient builds the manifest client from the active configuration.
func newManifestClient() *manifest.Client {
	mc := activeConfig().Manifest
	return manifest.NewClient(
		manifest.WithPrimaryURL(mc.PrimaryURL),
		manifest.WithMirrorURL(mc.MirrorURL),
		manifest.WithUserAgent("phpvm/"+Version),
	)
}

// newInstaller composes the store and manifest client into an installer.
func newInstaller(st *store.Store) *installer.Installer {
	return installer.New(st, newManifestClient())
}
