// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/instance"
	"github.com/kkx/mcl/internal/issue"
	"github.com/kkx/mcl/internal/manifest"

	"github.com/spf13/cobra"
)

// newInstanceCommand creates the `mcl instance` command tree.
func newInstanceCommand(app *App, flags *rootFlags) *cobra.Command {
	instCmd := &cobra.Command{
		Use:     "instance",
		Aliases: []string{"inst"},
		Short:   "Manage instances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	instCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List instances and their components",
		Args:  cobra.NoArgs,
		RunE: app.run(flags, func(_ context.Context, s *session, _ []string) error {
			return app.listInstances(s)
		}),
	})

	var version string
	createCmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create an instance with a game client component",
		Args:  cobra.ExactArgs(1),
		RunE: app.run(flags, func(_ context.Context, s *session, args []string) error {
			sel, err := parseSelector(version)
			if err != nil {
				return err
			}
			inst, err := instance.New(s.layout, args[0], sel)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "%s %s (%s) at %s\n", SuccessStyle.Render("Created"), KeyStyle.Render(inst.ID), sel, inst.Dir())
			return nil
		}),
	}
	createCmd.Flags().StringVar(&version, "version", string(manifest.TagLatest), `version id, "latest" or "stable"`)
	instCmd.AddCommand(createCmd)

	instCmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <new-id>",
		Short: "Rename an instance and its directory",
		Args:  cobra.ExactArgs(2),
		RunE: app.run(flags, func(_ context.Context, s *session, args []string) error {
			inst, err := instance.Load(s.layout, args[0])
			if err != nil {
				return err
			}
			if err := inst.Rename(args[1]); err != nil {
				return issue.WrapWithOperation(err, "rename instance "+args[0])
			}
			fmt.Fprintf(app.stdout, "%s %s to %s\n", SuccessStyle.Render("Renamed"), args[0], KeyStyle.Render(inst.ID))
			return nil
		}),
	})

	var addVersion string
	addCmd := &cobra.Command{
		Use:   "add <id> <kind>",
		Short: "Add a component to an instance",
		Long: "Add a component to an instance. Known kinds: " + joinKinds(component.Kinds()) + `.
An instance holds at most one component of each kind.`,
		Args: cobra.ExactArgs(2),
		RunE: app.run(flags, func(_ context.Context, s *session, args []string) error {
			return app.addComponent(s, args[0], component.Kind(args[1]), addVersion)
		}),
	}
	addCmd.Flags().StringVar(&addVersion, "version", string(manifest.TagLatest), "component version selector")
	instCmd.AddCommand(addCmd)

	instCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show an instance",
		Args:  cobra.ExactArgs(1),
		RunE: app.run(flags, func(_ context.Context, s *session, args []string) error {
			inst, err := instance.Load(s.layout, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, TitleStyle.Render(inst.ID))
			fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render("Directory"), inst.Dir())
			for _, c := range inst.Components {
				fmt.Fprintf(app.stdout, "%s: %s\n", KeyStyle.Render(c.Kind().String()), c.Selector())
			}
			return nil
		}),
	})

	return instCmd
}

func (a *App) listInstances(s *session) error {
	instances, err := instance.Discover(s.layout)
	if err != nil {
		return err
	}
	if len(instances) == 0 {
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("(no instances)"))
		return nil
	}
	for _, inst := range instances {
		parts := make([]string, 0, len(inst.Components))
		for _, c := range inst.Components {
			parts = append(parts, c.Kind().String()+"@"+c.Selector().String())
		}
		fmt.Fprintln(a.stdout, idColumnStyle.Render(inst.ID)+strings.Join(parts, ", "))
	}
	return nil
}

func (a *App) addComponent(s *session, id string, kind component.Kind, version string) error {
	sel, err := parseSelector(version)
	if err != nil {
		return err
	}
	c, err := component.New(kind, sel)
	if err != nil {
		return err
	}
	inst, err := instance.Load(s.layout, id)
	if err != nil {
		return err
	}
	if err := inst.AddComponent(c); err != nil {
		return err
	}
	if err := inst.Save(); err != nil {
		return issue.WrapWithOperation(err, "save instance "+inst.ID)
	}
	fmt.Fprintf(a.stdout, "%s %s@%s to %s\n", SuccessStyle.Render("Added"), kind, sel, KeyStyle.Render(inst.ID))
	return nil
}

func parseSelector(s string) (manifest.Selector, error) {
	sel, err := manifest.ParseSelector(s)
	if err != nil {
		return manifest.Selector{}, issue.NewErrorContext().
			WithOperation("parse version selector").
			WithResource(s).
			WithSuggestion(`Use "latest", "stable" or a version id such as "1.20.1"`).
			Wrap(err).
			BuildError()
	}
	return sel, nil
}

func joinKinds(kinds []component.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
