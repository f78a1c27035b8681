// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/kkx/mcl/internal/fetch"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"org/lwjgl/lwjgl.jar", "org/lwjgl/lwjgl.jar"},
		{"/abs/path.so", "abs/path.so"},
		{"../../etc/passwd", "etc/passwd"},
		{"a/../../b", "b"},
		{"a/./b//c", "a/b/c"},
		{`C:\Windows\evil.dll`, "Windows/evil.dll"},
		{"..", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	l := New(root)
	d := fetch.MustParseDigest("aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"manifest", l.ManifestCache(), filepath.Join(root, "meta", "minecraft.json")},
		{"version meta", l.VersionMeta("1.20.1"), filepath.Join(root, "versions", "1.20.1", "meta.json")},
		{"client jar", l.ClientJar("1.20.1"), filepath.Join(root, "versions", "1.20.1", "client.jar")},
		{"natives", l.NativesDir("1.20.1"), filepath.Join(root, "versions", "1.20.1", "natives")},
		{"library", l.Library("com/mojang/logging.jar"), filepath.Join(root, "libraries", "com", "mojang", "logging.jar")},
		{"asset index", l.AssetIndex("5"), filepath.Join(root, "assets", "indexes", "5.json")},
		{"asset object", l.AssetObject(d), filepath.Join(root, "assets", "objects", "aa", d.String())},
		{"log config", l.LogConfig("client-1.12.xml"), filepath.Join(root, "assets", "log_configs", "client-1.12.xml")},
		{"instance meta", l.InstanceMeta("survival"), filepath.Join(root, "instances", "survival", "meta.json")},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLibraryCannotEscape(t *testing.T) {
	t.Parallel()

	l := New(t.TempDir())
	got := l.Library("../../../outside.jar")
	if !strings.HasPrefix(got, l.LibrariesDir()+string(filepath.Separator)) {
		t.Errorf("Library() = %q escapes %q", got, l.LibrariesDir())
	}
}
