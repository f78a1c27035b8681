// SPDX-License-Identifier: MPL-2.0

package component

import (
	"io"
	"strings"
	"time"

	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/layout"
	"github.com/kkx/mcl/internal/manifest"
	"github.com/kkx/mcl/pkg/platform"

	"github.com/charmbracelet/log"
)

const (
	// DefaultResourcesURL is the asset object host.
	DefaultResourcesURL = "https://resources.download.minecraft.net"

	// DefaultManifestTTL is how long a cached manifest is trusted without a request.
	DefaultManifestTTL = 30 * time.Minute

	// DefaultLibraryConcurrency bounds concurrent library downloads.
	DefaultLibraryConcurrency = 5

	// DefaultAssetConcurrency bounds concurrent asset object downloads.
	DefaultAssetConcurrency = 30

	// DefaultLauncherName is bound to ${launcher_name}.
	DefaultLauncherName = "mcl"

	// DefaultLauncherVersion is bound to ${launcher_version}.
	DefaultLauncherVersion = "dev"
)

type (
	// Endpoints are the remote locations components read from.
	Endpoints struct {
		ManifestURL  string
		ResourcesURL string
	}

	// Limits bound the concurrent fetch phases.
	Limits struct {
		Libraries int
		Assets    int
	}

	// Launcher identifies this launcher to the game.
	Launcher struct {
		Name    string
		Version string
	}

	// Env is everything an install needs besides the component and the
	// State: the fetch client, the data directory, the host platform, remote
	// endpoints, pool limits, and logging. It is built once at startup and
	// shared read-only by every install.
	Env struct {
		Client      *fetch.Client
		Layout      layout.Layout
		Platform    platform.Platform
		Endpoints   Endpoints
		ManifestTTL time.Duration
		Limits      Limits
		Launcher    Launcher
		Logger      *log.Logger
		Observer    Observer
	}

	// EnvOption configures an Env during construction.
	EnvOption func(*Env)
)

// DefaultEndpoints returns the official endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{ManifestURL: manifest.DefaultURL, ResourcesURL: DefaultResourcesURL}
}

// DefaultLimits returns the default pool widths.
func DefaultLimits() Limits {
	return Limits{Libraries: DefaultLibraryConcurrency, Assets: DefaultAssetConcurrency}
}

// WithPlatform overrides the host platform rules and natives are evaluated for.
func WithPlatform(p platform.Platform) EnvOption {
	return func(e *Env) { e.Platform = p }
}

// WithEndpoints overrides the remote endpoints. Empty fields keep their defaults.
func WithEndpoints(ep Endpoints) EnvOption {
	return func(e *Env) {
		if ep.ManifestURL != "" {
			e.Endpoints.ManifestURL = ep.ManifestURL
		}
		if ep.ResourcesURL != "" {
			e.Endpoints.ResourcesURL = strings.TrimRight(ep.ResourcesURL, "/")
		}
	}
}

// WithManifestTTL overrides the manifest freshness window. Zero disables it.
func WithManifestTTL(d time.Duration) EnvOption {
	return func(e *Env) { e.ManifestTTL = d }
}

// WithLimits overrides the pool widths. Non-positive fields keep their defaults.
func WithLimits(l Limits) EnvOption {
	return func(e *Env) {
		if l.Libraries > 0 {
			e.Limits.Libraries = l.Libraries
		}
		if l.Assets > 0 {
			e.Limits.Assets = l.Assets
		}
	}
}

// WithLauncher overrides the launcher identity. Empty fields keep their defaults.
func WithLauncher(l Launcher) EnvOption {
	return func(e *Env) {
		if l.Name != "" {
			e.Launcher.Name = l.Name
		}
		if l.Version != "" {
			e.Launcher.Version = l.Version
		}
	}
}

// WithLogger sets the logger for install progress.
func WithLogger(l *log.Logger) EnvOption {
	return func(e *Env) { e.Logger = l }
}

// WithObserver sets the receiver of tolerated task results. Without one,
// results are logged through the Env's logger.
func WithObserver(o Observer) EnvOption {
	return func(e *Env) { e.Observer = o }
}

// NewEnv returns an Env for client and l with defaults for everything else.
func NewEnv(client *fetch.Client, l layout.Layout, opts ...EnvOption) *Env {
	e := &Env{
		Client:      client,
		Layout:      l,
		Platform:    platform.Current(),
		Endpoints:   DefaultEndpoints(),
		ManifestTTL: DefaultManifestTTL,
		Limits:      DefaultLimits(),
		Launcher:    Launcher{Name: DefaultLauncherName, Version: DefaultLauncherVersion},
		Logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Observer == nil {
		e.Observer = LogObserver(e.Logger)
	}
	return e
}

func (e *Env) report(phase Phase, results []TaskResult) {
	if e.Observer != nil {
		e.Observer.PhaseDone(phase, results)
	}
}
