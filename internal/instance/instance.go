// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kkx/mcl/internal/argument"
	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/layout"
)

var (
	// ErrInstanceAlreadyExists is returned when the target instance directory exists.
	ErrInstanceAlreadyExists = errors.New("instance already exists")

	// ErrInstanceNotFound is returned when an instance has no metadata.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrComponentAlreadyAdded is returned when a component of the same kind is present.
	ErrComponentAlreadyAdded = errors.New("component already added")

	// ErrIncompatibleComponent is returned when a component refuses to coexist with another.
	ErrIncompatibleComponent = errors.New("incompatible component")
)

type (
	// Instance is a named set of components with its own game directory.
	Instance struct {
		ID         string               `json:"id"`
		Components component.Components `json:"components"`

		layout layout.Layout
	}

	// AlreadyExistsError wraps ErrInstanceAlreadyExists with the id.
	AlreadyExistsError struct {
		ID string
	}

	// ComponentAlreadyAddedError wraps ErrComponentAlreadyAdded with the kind.
	ComponentAlreadyAddedError struct {
		Instance string
		Kind     component.Kind
	}

	// LaunchPlan is a rendered launch: JVM arguments, the main class, and
	// game arguments, all after substitution.
	LaunchPlan struct {
		MainClass string
		JVM       []string
		Game      []string
	}
)

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("instance %q already exists", e.ID)
}

// Unwrap returns ErrInstanceAlreadyExists so callers can use errors.Is.
func (e *AlreadyExistsError) Unwrap() error { return ErrInstanceAlreadyExists }

// Error implements the error interface.
func (e *ComponentAlreadyAddedError) Error() string {
	return fmt.Sprintf("instance %q already has a %s component", e.Instance, e.Kind)
}

// Unwrap returns ErrComponentAlreadyAdded so callers can use errors.Is.
func (e *ComponentAlreadyAddedError) Unwrap() error { return ErrComponentAlreadyAdded }

// New creates the instance directory for id with a single game client
// component selecting sel, and persists its metadata.
func New(l layout.Layout, id string, sel component.Selector) (*Instance, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	dir := l.InstanceDir(id)
	if _, err := os.Stat(dir); err == nil {
		return nil, &AlreadyExistsError{ID: id}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating instance directory: %w", err)
	}

	inst := &Instance{
		ID:         id,
		Components: component.Components{component.MinecraftClient{Version: sel}},
		layout:     l,
	}
	if err := inst.Save(); err != nil {
		return nil, err
	}
	return inst, nil
}

// Load reads the instance named id.
func Load(l layout.Layout, id string) (*Instance, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	return loadFile(l, l.InstanceMeta(id))
}

// Discover loads every instance under the instances directory, sorted by id.
// Directories without metadata are skipped; a missing instances directory
// yields no instances.
func Discover(l layout.Layout) ([]*Instance, error) {
	entries, err := os.ReadDir(l.InstancesDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading instances directory: %w", err)
	}

	var out []*Instance
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		inst, err := loadFile(l, filepath.Join(l.InstancesDir(), e.Name(), layout.MetaFile))
		if errors.Is(err, ErrInstanceNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func loadFile(l layout.Layout, path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInstanceNotFound, filepath.Dir(path))
	}
	if err != nil {
		return nil, fmt.Errorf("reading instance metadata: %w", err)
	}

	var inst Instance
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("%w %s: %w", fetch.ErrDecode, path, err)
	}
	inst.layout = l
	return &inst, nil
}

// Dir returns the instance directory, which is also the game directory.
func (i *Instance) Dir() string { return i.layout.InstanceDir(i.ID) }

// Save writes the instance metadata.
func (i *Instance) Save() error {
	data, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding instance %s: %w", i.ID, err)
	}
	if err := fetch.WriteAtomic(i.layout.InstanceMeta(i.ID), data); err != nil {
		return fmt.Errorf("saving instance %s: %w", i.ID, err)
	}
	return nil
}

// Rename moves the instance directory to newID and persists the new id. It
// fails with ErrInstanceAlreadyExists when newID is taken.
func (i *Instance) Rename(newID string) error {
	if err := ValidateID(newID); err != nil {
		return err
	}
	if newID == i.ID {
		return nil
	}
	target := i.layout.InstanceDir(newID)
	if _, err := os.Stat(target); err == nil {
		return &AlreadyExistsError{ID: newID}
	}
	if err := os.Rename(i.Dir(), target); err != nil {
		return fmt.Errorf("renaming instance %s: %w", i.ID, err)
	}
	i.ID = newID
	return i.Save()
}

// AddComponent appends c unless a component of the same kind is present or
// an existing component reports it incompatible. The list is unchanged on
// error. Call Save to persist.
func (i *Instance) AddComponent(c component.Component) error {
	if i.Components.Has(c.Kind()) {
		return &ComponentAlreadyAddedError{Instance: i.ID, Kind: c.Kind()}
	}
	for _, existing := range i.Components {
		if !existing.IsCompatible(c) {
			return fmt.Errorf("%w: %s conflicts with %s", ErrIncompatibleComponent, c.Kind(), existing.Kind())
		}
	}
	i.Components = append(i.Components, c)
	return nil
}

// Install runs every component's install in order against a fresh State.
func (i *Instance) Install(ctx context.Context, env *component.Env) (*component.State, error) {
	state := component.NewState()
	state.Set("game_directory", i.Dir())
	state.Set("user_type", "offline")

	for _, c := range i.Components {
		if err := c.Install(ctx, env, state); err != nil {
			return nil, fmt.Errorf("installing %s for instance %s: %w", c.Kind(), i.ID, err)
		}
	}
	return state, nil
}

// Plan installs the instance and renders its launch.
func (i *Instance) Plan(ctx context.Context, env *component.Env) (*LaunchPlan, error) {
	state, err := i.Install(ctx, env)
	if err != nil {
		return nil, err
	}
	state.Set("classpath", strings.Join(state.Classpath, string(filepath.ListSeparator)))

	return &LaunchPlan{
		MainClass: state.MainClass,
		JVM:       argument.Render(state.JVMArguments, state.Variables),
		Game:      argument.Render(state.GameArguments, state.Variables),
	}, nil
}

// Launch installs the instance and returns its JVM arguments followed by its
// game arguments. Arguments referencing unbound variables are omitted.
func (i *Instance) Launch(ctx context.Context, env *component.Env) ([]string, error) {
	plan, err := i.Plan(ctx, env)
	if err != nil {
		return nil, err
	}
	return plan.Args(), nil
}

// Args returns the JVM arguments followed by the game arguments.
func (p *LaunchPlan) Args() []string {
	out := make([]string, 0, len(p.JVM)+len(p.Game))
	out = append(out, p.JVM...)
	return append(out, p.Game...)
}

// Command returns the full command line: java, the JVM arguments, the main
// class, then the game arguments.
func (p *LaunchPlan) Command(java string) []string {
	out := make([]string, 0, len(p.JVM)+len(p.Game)+2)
	out = append(out, java)
	out = append(out, p.JVM...)
	out = append(out, p.MainClass)
	return append(out, p.Game...)
}
