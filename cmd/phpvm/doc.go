// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for phpvm.
//
// Every command is a thin caller over the core packages (installer, store,
// activate, manifest): it parses flags, wires collaborators from the loaded
// configuration, and formats results. The run functions take an explicit
// params struct so the core logic is testable without a live Cobra command.
package cmd
