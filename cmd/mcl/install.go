// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/instance"

	"github.com/spf13/cobra"
)

// exitIncomplete is the exit status of an install whose tolerated tasks
// did not all succeed.
const exitIncomplete = 2

// ErrIncompleteInstall is returned when some libraries, assets or the logging
// configuration failed to download.
var ErrIncompleteInstall = errors.New("install incomplete")

// installSummary counts tolerated task outcomes across phases while
// forwarding each phase to the next observer.
type installSummary struct {
	next       component.Observer
	downloaded int
	cached     int
	failed     []component.TaskResult
}

func (s *installSummary) PhaseDone(phase component.Phase, results []component.TaskResult) {
	for _, r := range results {
		switch {
		case r.Failed():
			s.failed = append(s.failed, r)
		case r.Result == fetch.Downloaded:
			s.downloaded++
		default:
			s.cached++
		}
	}
	if s.next != nil {
		s.next.PhaseDone(phase, results)
	}
}

// newInstallCommand creates the `mcl install` command.
func newInstallCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install <id>",
		Short: "Install an instance without launching it",
		Long: `Install an instance: resolve its version, download the client, libraries,
natives and assets into the shared cache, and report what was fetched.
Individual library and asset failures are reported and the command exits with
status 2; the files that did download stay cached.`,
		Args: cobra.ExactArgs(1),
		RunE: app.run(flags, func(ctx context.Context, s *session, args []string) error {
			return app.install(ctx, s, args[0])
		}),
	}
}

func (a *App) install(ctx context.Context, s *session, id string) error {
	inst, err := instance.Load(s.layout, id)
	if err != nil {
		return err
	}

	summary := &installSummary{next: s.env.Observer}
	env := *s.env
	env.Observer = summary

	state, err := inst.Install(ctx, &env)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s %s\n", SuccessStyle.Render("Installed"), KeyStyle.Render(inst.ID))
	fmt.Fprintf(a.stdout, "  %s %s\n", KeyStyle.Render("main class:"), state.MainClass)
	fmt.Fprintf(a.stdout, "  %s %d entries\n", KeyStyle.Render("classpath:"), len(state.Classpath))
	fmt.Fprintf(a.stdout, "  %s %d downloaded, %d cached\n", KeyStyle.Render("files:"), summary.downloaded, summary.cached)
	if len(summary.failed) > 0 {
		fmt.Fprintf(a.stdout, "  %s\n", WarningStyle.Render(fmt.Sprintf("%d tasks failed:", len(summary.failed))))
		for _, r := range summary.failed {
			fmt.Fprintf(a.stdout, "    %s %s: %v\n", r.Phase, r.Name, r.Err)
		}
		return &ExitError{
			Code: exitIncomplete,
			Err:  fmt.Errorf("%w: %d tasks failed for %s", ErrIncompleteInstall, len(summary.failed), inst.ID),
		}
	}
	return nil
}
