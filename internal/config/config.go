// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"phpvm/internal/manifest"
	"phpvm/pkg/platform"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for config and state paths.
	AppName = "phpvm"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

//nolint:gochecknoglobals // Test seam for the config directory.
var configDirOverride = ""

type (
	// Config is the resolved phpvm configuration.
	Config struct {
		// RootDir is the store root holding installed versions and the
		// global pointer. Defaults to ~/.phpvm.
		RootDir string `mapstructure:"root_dir" toml:"root_dir"`

		// Manifest configures where the version manifest is fetched from.
		Manifest ManifestConfig `mapstructure:"manifest" toml:"manifest"`
	}

	// ManifestConfig holds the manifest endpoints.
	ManifestConfig struct {
		PrimaryURL string `mapstructure:"primary_url" toml:"primary_url"`
		MirrorURL  string `mapstructure:"mirror_url" toml:"mirror_url"`
	}
)

// SetConfigDirOverride points config loading at a custom directory. Pass ""
// to restore the platform default. Intended for tests and the --config flag.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// DefaultConfig returns the built-in defaults. RootDir falls back to a
// relative ".phpvm" only when the home directory cannot be determined.
func DefaultConfig() *Config {
	root, err := DefaultRootDir()
	if err != nil {
		root = ".phpvm"
	}
	return &Config{
		RootDir: root,
		Manifest: ManifestConfig{
			PrimaryURL: manifest.DefaultPrimaryURL,
			MirrorURL:  manifest.DefaultMirrorURL,
		},
	}
}

// DefaultRootDir returns the default store root, ~/.phpvm.
func DefaultRootDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// ConfigDir returns the phpvm configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application
// Support, and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration from the config file (if present) layered
// over defaults, with PHPVM_* environment variables taking precedence.
// A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("root_dir", defaults.RootDir)
	v.SetDefault("manifest.primary_url", defaults.Manifest.PrimaryURL)
	v.SetDefault("manifest.mirror_url", defaults.Manifest.MirrorURL)

	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileExt)
	v.AddConfigPath(dir)

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PHPVM_ROOT is the conventional override users expect from version
	// managers; accept it alongside the mechanical PHPVM_ROOT_DIR.
	_ = v.BindEnv("root_dir", "PHPVM_ROOT", "PHPVM_ROOT_DIR")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// ConfigFilePath returns the full path of the config file, whether or not it
// exists yet.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// WriteDefaultFile writes the default configuration as TOML to the config
// file path, creating the config directory as needed. It refuses to
// overwrite an existing file and reports whether it created one.
func WriteDefaultFile() (path string, created bool, err error) {
	path, err = ConfigFilePath()
	if err != nil {
		return "", false, err
	}

	if _, statErr := os.Stat(path); statErr == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", false, fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", false, fmt.Errorf("writing config file: %w", err)
	}

	return path, true, nil
}
