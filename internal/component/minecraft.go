// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kkx/mcl/internal/argument"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/library"
	"github.com/kkx/mcl/internal/manifest"
)

// MinecraftClient installs the game client of the selected version.
type MinecraftClient struct {
	Version Selector `json:"version"`
}

// Kind returns KindMinecraftClient.
func (MinecraftClient) Kind() Kind { return KindMinecraftClient }

// Selector returns the selected version.
func (c MinecraftClient) Selector() Selector { return c.Version }

// IsCompatible always reports true.
func (MinecraftClient) IsCompatible(Component) bool { return true }

// Install resolves the selected version and downloads everything it needs:
// the version document, the client jar, the libraries (bounded pool), the
// asset index and objects (bounded pool), and the logging configuration. It
// then appends the classpath, arguments and variables to state.
//
// Failures of individual libraries, assets and the logging configuration are
// reported to env.Observer and do not fail the install. A natives library
// with no bundle for the host platform does.
func (c MinecraftClient) Install(ctx context.Context, env *Env, state *State) error {
	logger := env.Logger.With("component", KindMinecraftClient)

	m, err := manifest.Fetch(ctx, env.Client, env.Endpoints.ManifestURL, env.Layout.ManifestCache(), env.ManifestTTL)
	if err != nil {
		return err
	}
	entry, err := m.Resolve(c.Version)
	if err != nil {
		return err
	}
	logger.Info("resolved version", "selector", c.Version, "version", entry.ID)

	v, err := entry.FetchVersion(ctx, env.Client, env.Layout.VersionMeta(entry.ID))
	if err != nil {
		return err
	}

	clientJar := env.Layout.ClientJar(v.ID)
	if _, err := env.Client.FetchAndCache(ctx, v.Downloads.Client.URL, clientJar, v.Downloads.Client.Hash(), false); err != nil {
		return fmt.Errorf("downloading client jar of %s: %w", v.ID, err)
	}
	state.AddClasspath(clientJar)

	mat := library.New(env.Client, env.Layout, env.Platform)
	libResults := runBounded(ctx, PhaseLibraries, env.Limits.Libraries, libraryTasks(mat, v))
	env.report(PhaseLibraries, libResults)
	if err := unsupported(libResults); err != nil {
		return err
	}
	// Rules are evaluated again here; Materialize already skipped the
	// disallowed fetches.
	state.AddClasspath(mat.ClasspathEntries(v.Libraries)...)

	idx, err := v.AssetIndex.FetchIndex(ctx, env.Client, env.Layout.AssetIndex(v.AssetIndex.ID))
	if err != nil {
		return err
	}
	env.report(PhaseAssets, runBounded(ctx, PhaseAssets, env.Limits.Assets, assetTasks(env, idx)))

	c.bindVariables(env, v, state)

	switch {
	case v.Arguments != nil:
		state.JVMArguments = append(state.JVMArguments, argument.Normalize(v.Arguments.JVM, env.Platform)...)
		state.GameArguments = append(state.GameArguments, argument.Normalize(v.Arguments.Game, env.Platform)...)
	case v.MinecraftArguments != "":
		state.JVMArguments = append(state.JVMArguments, argument.DefaultJVM()...)
		state.GameArguments = append(state.GameArguments, argument.FromLegacy(v.MinecraftArguments, env.Platform)...)
	}

	if arg, ok := c.installLogging(ctx, env, v); ok {
		state.JVMArguments = append(state.JVMArguments, arg)
	}

	if v.MainClass != "" {
		state.MainClass = v.MainClass
	}
	return nil
}

// unsupported returns the first library failure caused by a platform with no
// native bundle.
func unsupported(results []TaskResult) error {
	for _, r := range results {
		if errors.Is(r.Err, library.ErrUnsupportedPlatform) {
			return r.Err
		}
	}
	return nil
}

func libraryTasks(mat *library.Materializer, v *manifest.Version) []task {
	tasks := make([]task, 0, len(v.Libraries))
	for i := range v.Libraries {
		lib := &v.Libraries[i]
		tasks = append(tasks, task{
			name: lib.Name,
			run: func(ctx context.Context) (fetch.Result, error) {
				return mat.Materialize(ctx, v.ID, lib)
			},
		})
	}
	return tasks
}

func assetTasks(env *Env, idx *manifest.AssetIndex) []task {
	names := idx.Names()
	tasks := make([]task, 0, len(names))
	for _, name := range names {
		asset := idx.Objects[name]
		tasks = append(tasks, task{
			name: name,
			run: func(ctx context.Context) (fetch.Result, error) {
				url := env.Endpoints.ResourcesURL + "/" + asset.ObjectPath()
				return env.Client.FetchAndCache(ctx, url, env.Layout.AssetObject(asset.Hash), fetch.SHA1(asset.Hash), false)
			},
		})
	}
	return tasks
}

// installLogging downloads the client logging configuration and returns its
// JVM argument with ${path} replaced. A failed download is reported and the
// argument omitted.
func (c MinecraftClient) installLogging(ctx context.Context, env *Env, v *manifest.Version) (argument.Argument, bool) {
	if v.Logging == nil || v.Logging.Client == nil || v.Logging.Client.Argument == "" {
		return argument.Argument{}, false
	}
	file := v.Logging.Client.File
	path := env.Layout.LogConfig(file.ID)

	res, err := env.Client.FetchAndCache(ctx, file.URL, path, file.Hash(), false)
	env.report(PhaseLogging, []TaskResult{{Phase: PhaseLogging, Name: file.ID, Result: res, Err: err}})
	if err != nil {
		return argument.Argument{}, false
	}

	raw := strings.ReplaceAll(v.Logging.Client.Argument, "${path}", path)
	args := argument.Normalize([]manifest.RawArgument{manifest.Basic(raw)}, env.Platform)
	if len(args) != 1 {
		return argument.Argument{}, false
	}
	return args[0], true
}

func (c MinecraftClient) bindVariables(env *Env, v *manifest.Version, state *State) {
	assets := env.Layout.AssetsDir()
	state.Set("version_name", v.ID)
	state.Set("version_type", v.Type.String())
	state.Set("assets_root", assets)
	state.Set("game_assets", assets)
	state.Set("assets_index_name", v.AssetIndex.ID)
	state.Set("natives_directory", env.Layout.NativesDir(v.ID))
	state.Set("library_directory", env.Layout.LibrariesDir())
	state.Set("classpath_separator", string(filepath.ListSeparator))
	state.Set("launcher_name", env.Launcher.Name)
	state.Set("launcher_version", env.Launcher.Version)
}
