// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/kkx/mcl/internal/instance"

	"github.com/spf13/cobra"
	"mvdan.cc/sh/v3/syntax"
)

// newLaunchCommand creates the `mcl launch` command.
func newLaunchCommand(app *App, flags *rootFlags) *cobra.Command {
	var (
		java  string
		shell bool
	)
	cmd := &cobra.Command{
		Use:   "launch <id>",
		Short: "Install an instance and print its launch command",
		Long: `Install an instance and print the command that starts it: the java
executable, the JVM arguments, the main class, then the game arguments.
With --shell each word is quoted so the line can be pasted into a shell.`,
		Args: cobra.ExactArgs(1),
		RunE: app.run(flags, func(ctx context.Context, s *session, args []string) error {
			inst, err := instance.Load(s.layout, args[0])
			if err != nil {
				return err
			}
			plan, err := inst.Plan(ctx, s.env)
			if err != nil {
				return err
			}
			line, err := formatCommand(plan.Command(java), shell)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, line)
			return nil
		}),
	}
	cmd.Flags().StringVar(&java, "java", "java", "java executable to launch with")
	cmd.Flags().BoolVar(&shell, "shell", false, "quote words for a POSIX shell")
	return cmd
}

// formatCommand joins words with spaces, quoting each for bash when quote
// is set.
func formatCommand(words []string, quote bool) (string, error) {
	if !quote {
		return strings.Join(words, " "), nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quoting %q: %w", w, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}
