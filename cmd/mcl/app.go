// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/config"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/issue"
	"github.com/kkx/mcl/internal/layout"

	"github.com/charmbracelet/log"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. Command handlers build
	// a session from it for each invocation.
	App struct {
		Config     ConfigProvider
		HTTPClient *http.Client
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// HTTPClient replaces the client built from the http config section.
		HTTPClient *http.Client
		Stdout     io.Writer
		Stderr     io.Writer
	}

	// rootFlags are the persistent flags shared by every command.
	rootFlags struct {
		configPath string
		verbose    bool
	}

	// session is the configuration and install environment of one command
	// invocation.
	session struct {
		cfg     *config.Config
		layout  layout.Layout
		env     *component.Env
		logger  *log.Logger
		verbose bool
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config:     deps.Config,
		HTTPClient: deps.HTTPClient,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}

// loadConfig loads configuration honoring --config.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
}

// newSession loads configuration and builds the install environment from it.
func (a *App) newSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	verbose := flags.verbose || cfg.UI.Verbose
	logger := a.newLogger(cfg, verbose)

	dataDir, err := cfg.ResolvedDataDir()
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("locate data directory").
			WithSuggestion("Set data_dir in your configuration").
			Wrap(err).
			BuildError()
	}
	l := layout.New(dataDir)

	// IsValid already rejected malformed durations.
	timeout, _ := cfg.HTTP.Timeout.Duration()
	ttl, _ := cfg.ManifestTTL.Duration()

	httpClient := a.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	client := fetch.NewClient(
		fetch.WithHTTPClient(httpClient),
		fetch.WithUserAgent(cfg.HTTP.UserAgent),
		fetch.WithLogger(logger.WithPrefix("fetch")),
	)

	env := component.NewEnv(client, l,
		component.WithEndpoints(component.Endpoints{
			ManifestURL:  cfg.ManifestURL,
			ResourcesURL: cfg.ResourcesURL,
		}),
		component.WithManifestTTL(ttl),
		component.WithLimits(component.Limits{
			Libraries: cfg.Concurrency.Libraries,
			Assets:    cfg.Concurrency.Assets,
		}),
		component.WithLauncher(component.Launcher{
			Name:    cfg.Launcher.Name,
			Version: cfg.Launcher.Version,
		}),
		component.WithLogger(logger.WithPrefix("install")),
	)

	return &session{cfg: cfg, layout: l, env: env, logger: logger, verbose: verbose}, nil
}

func (a *App) newLogger(cfg *config.Config, verbose bool) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel.String())
	if err != nil {
		level = log.WarnLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}
