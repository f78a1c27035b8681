// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kkx/mcl/internal/config"
	"github.com/kkx/mcl/internal/instance"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "mcl",
		Short: "Install and launch game client instances",
		Long: TitleStyle.Render("mcl") + SubtitleStyle.Render(" - install and launch game client instances") + `

mcl keeps a shared cache of game versions, libraries and assets, and a set
of named instances that each select a version. Run without a subcommand it
installs every instance and prints its launch command line.

` + SubtitleStyle.Render("Examples:") + `
  mcl instance create vanilla --version latest
  mcl install vanilla
  mcl launch vanilla --shell
  mcl config show`,
		Args: cobra.NoArgs,
		RunE: app.run(flags, func(ctx context.Context, s *session, _ []string) error {
			return app.printAllLaunchLines(ctx, s)
		}),
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/mcl/config.cue)")

	root.AddCommand(newInstanceCommand(app, flags))
	root.AddCommand(newInstallCommand(app, flags))
	root.AddCommand(newLaunchCommand(app, flags))
	root.AddCommand(newConfigCommand(app, flags))

	return root
}

// run adapts fn into a RunE handler: it builds the session, runs fn, and
// renders any failure with its catalog guidance.
func (a *App) run(flags *rootFlags, fn func(ctx context.Context, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.newSession(cmd.Context(), flags)
		if err == nil {
			err = fn(cmd.Context(), s, args)
		}
		if err != nil {
			verbose, scheme := flags.verbose, config.ColorSchemeAuto
			if s != nil {
				verbose, scheme = s.verbose, s.cfg.UI.ColorScheme
			}
			renderError(a.stderr, err, verbose, scheme)
			cmd.SilenceUsage = true
		}
		return err
	}
}

// printAllLaunchLines installs every discovered instance and prints
// "java <args>" for each, in id order.
func (a *App) printAllLaunchLines(ctx context.Context, s *session) error {
	instances, err := instance.Discover(s.layout)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render("No instances. Create one with 'mcl instance create <id>'."))
		return nil
	}

	for _, inst := range instances {
		args, err := inst.Launch(ctx, s.env)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "java "+strings.Join(args, " "))
	}
	return nil
}

// Execute runs the CLI and exits with the resulting status.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
