// SPDX-License-Identifier: MPL-2.0

package instance_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/instance"
	"github.com/kkx/mcl/internal/layout"
	"github.com/kkx/mcl/internal/manifest"
	"github.com/kkx/mcl/internal/testutil/remotetest"
	"github.com/kkx/mcl/pkg/platform"

	"github.com/google/go-cmp/cmp"
)

func TestNewPersistsMetadata(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	inst, err := instance.New(l, "vanilla", manifest.Latest())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if inst.Dir() != l.InstanceDir("vanilla") {
		t.Errorf("Dir() = %q, want %q", inst.Dir(), l.InstanceDir("vanilla"))
	}

	data, err := os.ReadFile(l.InstanceMeta("vanilla"))
	if err != nil {
		t.Fatalf("reading meta.json: %v", err)
	}
	want := `{"id":"vanilla","components":[{"id":"minecraft-client","version":"latest"}]}`
	if got := compact(t, data); got != want {
		t.Errorf("meta.json = %s, want %s", got, want)
	}
}

func TestNewExistingInstance(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	if _, err := instance.New(l, "vanilla", manifest.Latest()); err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err := instance.New(l, "vanilla", manifest.Stable())
	if !errors.Is(err, instance.ErrInstanceAlreadyExists) {
		t.Fatalf("New() error = %v, want ErrInstanceAlreadyExists", err)
	}

	loaded, err := instance.Load(l, "vanilla")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.Components[0].Selector(); got != manifest.Latest() {
		t.Errorf("existing instance was overwritten: selector = %v", got)
	}
}

func TestNewInvalidID(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	_, err := instance.New(l, "../escape", manifest.Latest())
	if !errors.Is(err, instance.ErrInvalidID) {
		t.Fatalf("New() error = %v, want ErrInvalidID", err)
	}
	if _, statErr := os.Stat(filepath.Join(l.Root(), "escape")); !os.IsNotExist(statErr) {
		t.Errorf("directory created outside instances: %v", statErr)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	inst, err := instance.New(l, "pack", manifest.ID("1.12.2"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := inst.AddComponent(component.AuthlibInjector{Version: manifest.ID("1.2.5")}); err != nil {
		t.Fatalf("AddComponent() error = %v", err)
	}
	if err := inst.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := instance.Load(l, "pack")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var got []string
	for _, c := range loaded.Components {
		got = append(got, c.Kind().String()+"@"+c.Selector().String())
	}
	want := []string{"minecraft-client@1.12.2", "authlib-injector@1.2.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	_, err := instance.Load(layout.New(t.TempDir()), "ghost")
	if !errors.Is(err, instance.ErrInstanceNotFound) {
		t.Fatalf("Load() error = %v, want ErrInstanceNotFound", err)
	}
}

func TestLoadUnknownComponentKind(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	meta := `{"id":"odd","components":[{"id":"forge","version":"latest"}]}`
	if err := fetch.WriteAtomic(l.InstanceMeta("odd"), []byte(meta)); err != nil {
		t.Fatal(err)
	}

	_, err := instance.Load(l, "odd")
	if !errors.Is(err, component.ErrUnknownKind) {
		t.Fatalf("Load() error = %v, want ErrUnknownKind", err)
	}
}

func TestAddComponentAlreadyAdded(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	inst, err := instance.New(l, "vanilla", manifest.Latest())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// Kinds are compared, not selectors.
	err = inst.AddComponent(component.MinecraftClient{Version: manifest.ID("1.20.1")})
	if !errors.Is(err, instance.ErrComponentAlreadyAdded) {
		t.Fatalf("AddComponent() error = %v, want ErrComponentAlreadyAdded", err)
	}
	var addErr *instance.ComponentAlreadyAddedError
	if !errors.As(err, &addErr) || addErr.Kind != component.KindMinecraftClient {
		t.Errorf("AddComponent() error = %#v, want kind %s", err, component.KindMinecraftClient)
	}
	if len(inst.Components) != 1 {
		t.Errorf("Components = %d entries, want 1 after rejected add", len(inst.Components))
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	inst, err := instance.New(l, "old", manifest.Latest())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := inst.Rename("new"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if inst.ID != "new" {
		t.Errorf("ID = %q, want new", inst.ID)
	}
	if _, err := os.Stat(l.InstanceDir("old")); !os.IsNotExist(err) {
		t.Errorf("old directory still present: %v", err)
	}
	loaded, err := instance.Load(l, "new")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ID != "new" {
		t.Errorf("persisted ID = %q, want new", loaded.ID)
	}
}

func TestRenameConflict(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	a, err := instance.New(l, "a", manifest.Latest())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := instance.New(l, "b", manifest.Stable()); err != nil {
		t.Fatal(err)
	}

	if err := a.Rename("b"); !errors.Is(err, instance.ErrInstanceAlreadyExists) {
		t.Fatalf("Rename() error = %v, want ErrInstanceAlreadyExists", err)
	}
	if a.ID != "a" {
		t.Errorf("ID changed to %q after failed rename", a.ID)
	}
	if _, err := os.Stat(l.InstanceMeta("a")); err != nil {
		t.Errorf("source instance disturbed: %v", err)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	l := layout.New(t.TempDir())
	for _, id := range []string{"zeta", "alpha"} {
		if _, err := instance.New(l, id, manifest.Latest()); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(l.InstancesDir(), "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(l.InstancesDir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := instance.Discover(l)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	var ids []string
	for _, inst := range found {
		ids = append(ids, inst.ID)
	}
	if diff := cmp.Diff([]string{"alpha", "zeta"}, ids); diff != "" {
		t.Errorf("Discover() mismatch (-want +got):\n%s", diff)
	}
}

func TestDiscoverNoInstancesDir(t *testing.T) {
	t.Parallel()

	found, err := instance.Discover(layout.New(t.TempDir()))
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Discover() = %d instances, want 0", len(found))
	}
}

func TestLaunch(t *testing.T) {
	t.Parallel()

	srv := remotetest.NewServer(t)
	srv.AddVersion("1.20.1", manifest.TypeRelease,
		remotetest.WithLibrary("com.mojang:logging:1.1.1", "com/mojang/logging-1.1.1.jar", nil),
		remotetest.WithArguments(
			[]manifest.RawArgument{
				manifest.Basic("-Djava.library.path=${natives_directory}"),
				manifest.Basic("-cp"),
				manifest.Basic("${classpath}"),
			},
			[]manifest.RawArgument{
				manifest.Basic("--username"),
				manifest.Basic("${auth_player_name}"),
				manifest.Basic("--version"),
				manifest.Basic("${version_name}"),
				manifest.Basic("--gameDir"),
				manifest.Basic("${game_directory}"),
				manifest.Basic("--userType"),
				manifest.Basic("${user_type}"),
			},
		),
	)

	l := layout.New(t.TempDir())
	env := component.NewEnv(fetch.NewClient(), l,
		component.WithPlatform(platform.From(platform.Linux, "amd64")),
		component.WithEndpoints(srv.Endpoints()),
	)
	inst, err := instance.New(l, "vanilla", manifest.Latest())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := inst.Launch(context.Background(), env)
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	classpath := strings.Join([]string{
		l.ClientJar("1.20.1"),
		l.Library("com/mojang/logging-1.1.1.jar"),
	}, string(filepath.ListSeparator))
	want := []string{
		"-Djava.library.path=" + l.NativesDir("1.20.1"),
		"-cp", classpath,
		"--version", "1.20.1",
		"--gameDir", inst.Dir(),
		"--userType", "offline",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Launch() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanCommand(t *testing.T) {
	t.Parallel()

	srv := remotetest.NewServer(t)
	srv.AddVersion("1.8.9", manifest.TypeRelease,
		remotetest.WithLegacyArguments("--version ${version_name} --session ${auth_session}"),
		remotetest.WithMainClass("net.minecraft.client.main.Main"),
	)

	l := layout.New(t.TempDir())
	env := component.NewEnv(fetch.NewClient(), l,
		component.WithPlatform(platform.From(platform.Linux, "amd64")),
		component.WithEndpoints(srv.Endpoints()),
	)
	inst, err := instance.New(l, "legacy", manifest.ID("1.8.9"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	plan, err := inst.Plan(context.Background(), env)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	want := []string{
		"java",
		"-Djava.library.path=" + l.NativesDir("1.8.9"),
		"-cp", l.ClientJar("1.8.9"),
		"net.minecraft.client.main.Main",
		"--version", "1.8.9",
	}
	if diff := cmp.Diff(want, plan.Command("java")); diff != "" {
		t.Errorf("Command() mismatch (-want +got):\n%s", diff)
	}
}

func TestInstallPropagatesComponentError(t *testing.T) {
	t.Parallel()

	srv := remotetest.NewServer(t)
	srv.AddVersion("1.20.1", manifest.TypeRelease)

	l := layout.New(t.TempDir())
	env := component.NewEnv(fetch.NewClient(), l, component.WithEndpoints(srv.Endpoints()))
	inst, err := instance.New(l, "missing", manifest.ID("0.0.1"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := inst.Install(context.Background(), env); !errors.Is(err, manifest.ErrVersionNotFound) {
		t.Fatalf("Install() error = %v, want ErrVersionNotFound", err)
	}
}

func compact(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		t.Fatalf("compacting %s: %v", data, err)
	}
	return buf.String()
}
