// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/issue"
	"github.com/kkx/mcl/pkg/cueutil"
	"github.com/kkx/mcl/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "mcl"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "MCL"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the mcl configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var base string

	switch runtime.GOOS {
	case platform.Windows:
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, AppName), nil
}

// DataDir returns the default root of caches and instances: %APPDATA%\mcl\data
// on Windows, ~/Library/Application Support/mcl on macOS, and
// $XDG_DATA_HOME/mcl (defaulting to ~/.local/share/mcl) elsewhere.
func DataDir() (string, error) {
	switch runtime.GOOS {
	case platform.Windows:
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "data"), nil
	case platform.Darwin:
		return ConfigDir()
	default:
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		return filepath.Join(base, AppName), nil
	}
}

// ResolvedDataDir returns c.DataDir, or DataDir() when it is unset.
func (c *Config) ResolvedDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	return DataDir()
}

// Path returns the config file Load would read for opts. When no file exists
// it returns the default location a new file would be written to, and false.
func Path(opts LoadOptions) (string, bool, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, fileExists(opts.ConfigFilePath), nil
	}
	dir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", false, err
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	return path, fileExists(path), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, exists, err := Path(opts)
	if err != nil {
		return nil, "", err
	}

	switch {
	case exists:
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare the file against 'mcl config dump'").
				Wrap(err).
				BuildError()
		}
	case opts.ConfigFilePath != "":
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'mcl config init' to create a default configuration").
			Wrap(fmt.Errorf("config file not found: %s", path)).
			BuildError()
	default:
		// No file: defaults and environment only.
		path = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the schema, so check the result too.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Check MCL_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("manifest_url", d.ManifestURL)
	v.SetDefault("resources_url", d.ResourcesURL)
	v.SetDefault("manifest_ttl", d.ManifestTTL.String())
	v.SetDefault("concurrency.libraries", d.Concurrency.Libraries)
	v.SetDefault("concurrency.assets", d.Concurrency.Assets)
	v.SetDefault("launcher.name", d.Launcher.Name)
	v.SetDefault("launcher.version", d.Launcher.Version)
	v.SetDefault("http.timeout", d.HTTP.Timeout.String())
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("ui.color_scheme", d.UI.ColorScheme.String())
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("log_level", d.LogLevel.String())
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// contents into v. Fields are optional, so concreteness is not required and
// the document decodes into a map rather than a struct.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	var values map[string]any
	if err := unified.Decode(&values); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(values); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save writes cfg as CUE to the location Path resolves for opts, creating
// the directory when needed, and returns that location.
func Save(cfg *Config, opts LoadOptions) (string, error) {
	path, _, err := Path(opts)
	if err != nil {
		return "", err
	}
	if err := fetch.WriteAtomic(path, []byte(GenerateCUE(cfg))); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// CreateDefaultConfig writes the default configuration unless a file already
// exists. It returns the path and whether a file was written.
func CreateDefaultConfig(opts LoadOptions) (string, bool, error) {
	path, exists, err := Path(opts)
	if err != nil || exists {
		return path, false, err
	}
	if _, err := Save(DefaultConfig(), opts); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// mcl configuration file\n\n")

	if cfg.DataDir != "" {
		fmt.Fprintf(&sb, "data_dir: %q\n", cfg.DataDir)
	}
	fmt.Fprintf(&sb, "manifest_url: %q\n", cfg.ManifestURL)
	fmt.Fprintf(&sb, "resources_url: %q\n", cfg.ResourcesURL)
	fmt.Fprintf(&sb, "manifest_ttl: %q\n", cfg.ManifestTTL)
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)

	sb.WriteString("\nconcurrency: {\n")
	fmt.Fprintf(&sb, "\tlibraries: %d\n", cfg.Concurrency.Libraries)
	fmt.Fprintf(&sb, "\tassets: %d\n", cfg.Concurrency.Assets)
	sb.WriteString("}\n")

	sb.WriteString("\nlauncher: {\n")
	fmt.Fprintf(&sb, "\tname: %q\n", cfg.Launcher.Name)
	fmt.Fprintf(&sb, "\tversion: %q\n", cfg.Launcher.Version)
	sb.WriteString("}\n")

	sb.WriteString("\nhttp: {\n")
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.HTTP.Timeout)
	fmt.Fprintf(&sb, "\tuser_agent: %q\n", cfg.HTTP.UserAgent)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
