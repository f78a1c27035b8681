// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/kkx/mcl/internal/issue"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty without a file", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
data_dir: "/srv/mcl"
manifest_ttl: "5m"
concurrency: assets: 8
launcher: name: "custom"
http: timeout: "45s"
log_level: "debug"
`)

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}

	want := DefaultConfig()
	want.DataDir = "/srv/mcl"
	want.ManifestTTL = "5m"
	want.Concurrency.Assets = 8
	want.Launcher.Name = "custom"
	want.HTTP.Timeout = "45s"
	want.LogLevel = LogLevelDebug
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		mention string
	}{
		{"zero concurrency", `concurrency: assets: 0`, "concurrency.assets"},
		{"unknown key", `colour: "red"`, "colour"},
		{"bad duration", `manifest_ttl: "half an hour"`, "manifest_ttl"},
		{"bad url", `manifest_url: "file:///tmp/m.json"`, "manifest_url"},
		{"bad log level", `log_level: "trace"`, "log_level"},
		{"syntax", `data_dir: "unterminated`, ConfigFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() error = nil, want schema error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || !ae.HasSuggestions() {
				t.Errorf("Load() error = %T, want *issue.ActionableError with suggestions", err)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.mention)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `ui: verbose: true`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true from explicit file")
	}
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.cue")
	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if ae.Resource != missing {
		t.Errorf("Resource = %q, want %q", ae.Resource, missing)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `concurrency: libraries: 2`)
	t.Setenv("MCL_DATA_DIR", "/from/env")
	t.Setenv("MCL_CONCURRENCY_LIBRARIES", "9")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", cfg.DataDir)
	}
	if cfg.Concurrency.Libraries != 9 {
		t.Errorf("Concurrency.Libraries = %d, want 9 (env beats file)", cfg.Concurrency.Libraries)
	}
}

func TestLoadEnvironmentValidated(t *testing.T) {
	t.Setenv("MCL_LOG_LEVEL", "loud")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("Load() error = %v, want ErrInvalidLogLevel", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := DefaultConfig()
	want.DataDir = `C:\Games\mcl`
	want.ManifestTTL = "1h30m"
	want.Concurrency = ConcurrencyConfig{Libraries: 3, Assets: 12}
	want.HTTP = HTTPConfig{Timeout: "2m", UserAgent: "mcl/test"}
	want.UI = UIConfig{ColorScheme: ColorSchemeDark, Verbose: true}
	want.LogLevel = LogLevelInfo

	path, err := Save(want, LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Save() path = %q, want inside %q", path, dir)
	}

	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, GenerateCUE(want))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	opts := LoadOptions{ConfigDirPath: dir}

	path, created, err := CreateDefaultConfig(opts)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %q, %v, %v; want created", path, created, err)
	}
	writeConfig(t, dir, `log_level: "error"`)

	if _, created, err := CreateDefaultConfig(opts); err != nil || created {
		t.Fatalf("second CreateDefaultConfig() = %v, %v; want existing file kept", created, err)
	}
	cfg, err := NewProvider().Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != LogLevelError {
		t.Errorf("LogLevel = %q, existing file was overwritten", cfg.LogLevel)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, exists, err := Path(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "config.cue"); path != want || exists {
		t.Errorf("Path() = %q, %v; want %q, false", path, exists, want)
	}

	writeConfig(t, dir, "")
	if _, exists, _ := Path(LoadOptions{ConfigDirPath: dir}); !exists {
		t.Error("Path() exists = false after writing the file")
	}
}

func TestConfigDirAndDataDirHonorXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG variables apply on Linux only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	if got, err := ConfigDir(); err != nil || got != "/xdg/config/mcl" {
		t.Errorf("ConfigDir() = %q, %v; want /xdg/config/mcl", got, err)
	}
	if got, err := DataDir(); err != nil || got != "/xdg/data/mcl" {
		t.Errorf("DataDir() = %q, %v; want /xdg/data/mcl", got, err)
	}

	cfg := DefaultConfig()
	if got, _ := cfg.ResolvedDataDir(); got != "/xdg/data/mcl" {
		t.Errorf("ResolvedDataDir() = %q, want the platform default", got)
	}
	cfg.DataDir = "/explicit"
	if got, _ := cfg.ResolvedDataDir(); got != "/explicit" {
		t.Errorf("ResolvedDataDir() = %q, want /explicit", got)
	}
}
