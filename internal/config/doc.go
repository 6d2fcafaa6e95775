// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with TOML as
// the file format.
//
// Configuration is loaded from ~/.config/phpvm/config.toml (or the XDG
// equivalent, ~/Library/Application Support/phpvm/config.toml on macOS,
// %APPDATA%\phpvm\config.toml on Windows), layered over built-in defaults,
// with PHPVM_* environment variables taking precedence. PHPVM_ROOT overrides
// the store root directly.
package config
