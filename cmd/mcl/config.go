// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/kkx/mcl/internal/config"
	"github.com/kkx/mcl/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `mcl config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: app.run(flags, func(_ context.Context, s *session, _ []string) error {
			return app.showConfig(flags, s)
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: app.run(flags, func(_ context.Context, s *session, _ []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		}),
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _, err := config.Path(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return app.fail(cmd, flags, err)
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, created, err := config.CreateDefaultConfig(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return app.fail(cmd, flags, issue.WrapWithOperation(err, "write configuration"))
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s %s\n", WarningStyle.Render("Exists:"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created"), path)
			return nil
		},
	})

	return cfgCmd
}

func (a *App) showConfig(flags *rootFlags, s *session) error {
	path, exists, err := config.Path(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	source := path
	if !exists {
		source += " (not found, using defaults)"
	}
	dataDir, err := s.cfg.ResolvedDataDir()
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, TitleStyle.Render("Configuration"))
	rows := []struct{ key, value string }{
		{"file", source},
		{"data_dir", dataDir},
		{"manifest_url", s.cfg.ManifestURL},
		{"resources_url", s.cfg.ResourcesURL},
		{"manifest_ttl", string(s.cfg.ManifestTTL)},
		{"concurrency.libraries", fmt.Sprint(s.cfg.Concurrency.Libraries)},
		{"concurrency.assets", fmt.Sprint(s.cfg.Concurrency.Assets)},
		{"launcher", s.cfg.Launcher.Name + " " + s.cfg.Launcher.Version},
		{"http.timeout", string(s.cfg.HTTP.Timeout)},
		{"http.user_agent", s.cfg.HTTP.UserAgent},
		{"ui.color_scheme", s.cfg.UI.ColorScheme.String()},
		{"log_level", s.cfg.LogLevel.String()},
	}
	for _, r := range rows {
		fmt.Fprintf(a.stdout, "%s %s\n", idColumnStyle.Render(r.key), r.value)
	}
	return nil
}

// fail renders err for handlers that run without a session.
func (a *App) fail(cmd *cobra.Command, flags *rootFlags, err error) error {
	renderError(a.stderr, err, flags.verbose, config.ColorSchemeAuto)
	cmd.SilenceUsage = true
	return err
}
