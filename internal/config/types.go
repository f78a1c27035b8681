// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/manifest"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug includes cache hits and skipped downloads.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo reports each download.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn reports stale fallbacks and failed install tasks.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError reports errors only.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidDuration is returned when a Duration does not parse or is negative.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidConcurrency is returned when a pool limit is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency")
	// ErrInvalidURL is returned when an endpoint is not an http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level of log messages written to stderr.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Duration is a Go duration string such as "30m" or "1h30m". The zero
	// value means zero.
	Duration string

	// InvalidDurationError is returned when a Duration is malformed.
	InvalidDurationError struct {
		Field string
		Value Duration
	}

	// InvalidConcurrencyError is returned when a pool limit is below one.
	InvalidConcurrencyError struct {
		Field string
		Value int
	}

	// InvalidURLError is returned when an endpoint is not an http(s) URL.
	InvalidURLError struct {
		Field string
		Value string
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the launcher configuration.
	Config struct {
		// DataDir is the root of caches and instances. Empty selects DataDir().
		DataDir string `json:"data_dir" mapstructure:"data_dir"`
		// ManifestURL is the version manifest location.
		ManifestURL string `json:"manifest_url" mapstructure:"manifest_url"`
		// ResourcesURL is the asset object host.
		ResourcesURL string `json:"resources_url" mapstructure:"resources_url"`
		// ManifestTTL is how long a cached manifest is used without a request.
		ManifestTTL Duration `json:"manifest_ttl" mapstructure:"manifest_ttl"`
		// Concurrency bounds the download pools.
		Concurrency ConcurrencyConfig `json:"concurrency" mapstructure:"concurrency"`
		// Launcher identifies this launcher to the game.
		Launcher LauncherConfig `json:"launcher" mapstructure:"launcher"`
		// HTTP configures the download client.
		HTTP HTTPConfig `json:"http" mapstructure:"http"`
		// UI configures terminal output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// LogLevel is the minimum level logged to stderr.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
	}

	// ConcurrencyConfig bounds concurrent downloads per install phase.
	ConcurrencyConfig struct {
		Libraries int `json:"libraries" mapstructure:"libraries"`
		Assets    int `json:"assets" mapstructure:"assets"`
	}

	// LauncherConfig sets ${launcher_name} and ${launcher_version}.
	LauncherConfig struct {
		Name    string `json:"name" mapstructure:"name"`
		Version string `json:"version" mapstructure:"version"`
	}

	// HTTPConfig configures the download client.
	HTTPConfig struct {
		// Timeout bounds each request. Zero disables it.
		Timeout   Duration `json:"timeout" mapstructure:"timeout"`
		UserAgent string   `json:"user_agent" mapstructure:"user_agent"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ManifestURL:  manifest.DefaultURL,
		ResourcesURL: component.DefaultResourcesURL,
		ManifestTTL:  "30m",
		Concurrency: ConcurrencyConfig{
			Libraries: component.DefaultLibraryConcurrency,
			Assets:    component.DefaultAssetConcurrency,
		},
		Launcher: LauncherConfig{
			Name:    component.DefaultLauncherName,
			Version: component.DefaultLauncherVersion,
		},
		HTTP: HTTPConfig{
			UserAgent: fetch.DefaultUserAgent,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
		LogLevel: LogLevelWarn,
	}
}

// IsValid reports whether every field holds a usable value, collecting all
// field errors into a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	check := func(valid bool, fieldErrs []error) {
		if !valid {
			errs = append(errs, fieldErrs...)
		}
	}

	check(validURL("manifest_url", c.ManifestURL))
	check(validURL("resources_url", c.ResourcesURL))
	check(c.ManifestTTL.isValid("manifest_ttl"))
	check(c.Concurrency.IsValid())
	check(c.HTTP.Timeout.isValid("http.timeout"))
	check(c.UI.ColorScheme.IsValid())
	check(c.LogLevel.IsValid())

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig followed by the field errors, so
// errors.Is matches both the sentinel and each field's own sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid reports whether both pool limits are positive.
func (c ConcurrencyConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Libraries < 1 {
		errs = append(errs, &InvalidConcurrencyError{Field: "concurrency.libraries", Value: c.Libraries})
	}
	if c.Assets < 1 {
		errs = append(errs, &InvalidConcurrencyError{Field: "concurrency.assets", Value: c.Assets})
	}
	return len(errs) == 0, errs
}

// Error implements the error interface.
func (e *InvalidConcurrencyError) Error() string {
	return fmt.Sprintf("%s: %d must be at least 1", e.Field, e.Value)
}

// Unwrap returns ErrInvalidConcurrency for errors.Is() compatibility.
func (e *InvalidConcurrencyError) Unwrap() error { return ErrInvalidConcurrency }

func validURL(field, value string) (bool, []error) {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return true, nil
	}
	return false, []error{&InvalidURLError{Field: field, Value: value}}
}

// Error implements the error interface.
func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("%s: %q is not an http(s) URL", e.Field, e.Value)
}

// Unwrap returns ErrInvalidURL for errors.Is() compatibility.
func (e *InvalidURLError) Unwrap() error { return ErrInvalidURL }

// String returns the duration text.
func (d Duration) String() string { return string(d) }

// Duration parses d. The empty string is zero.
func (d Duration) Duration() (time.Duration, error) {
	if d == "" {
		return 0, nil
	}
	v, err := time.ParseDuration(string(d))
	if err != nil || v < 0 {
		return 0, &InvalidDurationError{Value: d}
	}
	return v, nil
}

func (d Duration) isValid(field string) (bool, []error) {
	if _, err := d.Duration(); err != nil {
		return false, []error{&InvalidDurationError{Field: field, Value: d}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidDurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid duration %q", e.Value)
	}
	return fmt.Sprintf("%s: invalid duration %q", e.Field, e.Value)
}

// Unwrap returns ErrInvalidDuration for errors.Is() compatibility.
func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}
