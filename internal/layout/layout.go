// SPDX-License-Identifier: MPL-2.0

// Package layout names every path of the on-disk data directory:
//
//	<root>/meta/minecraft.json
//	<root>/versions/<id>/{meta.json,client.jar,natives/...}
//	<root>/libraries/<artifact-path>
//	<root>/assets/indexes/<id>.json
//	<root>/assets/objects/<hh>/<hash>
//	<root>/assets/log_configs/<id>
//	<root>/instances/<id>/meta.json
package layout

import (
	"path/filepath"
	"strings"

	"github.com/kkx/mcl/internal/fetch"
)

// MetaFile is the file name used for per-version and per-instance metadata.
const MetaFile = "meta.json"

// Layout resolves paths under a data directory.
type Layout struct {
	root string
}

// New returns a Layout rooted at root.
func New(root string) Layout {
	return Layout{root: filepath.Clean(root)}
}

// Root returns the data directory.
func (l Layout) Root() string { return l.root }

// ManifestCache is the cached version manifest.
func (l Layout) ManifestCache() string {
	return filepath.Join(l.root, "meta", "minecraft.json")
}

// VersionDir is the per-version directory.
func (l Layout) VersionDir(id string) string {
	return filepath.Join(l.root, "versions", Clean(id))
}

// VersionMeta is the cached version document.
func (l Layout) VersionMeta(id string) string {
	return filepath.Join(l.VersionDir(id), MetaFile)
}

// ClientJar is the version's client jar.
func (l Layout) ClientJar(id string) string {
	return filepath.Join(l.VersionDir(id), "client.jar")
}

// NativesDir receives the extracted native libraries of a version.
func (l Layout) NativesDir(id string) string {
	return filepath.Join(l.VersionDir(id), "natives")
}

// LibrariesDir is the shared library store.
func (l Layout) LibrariesDir() string {
	return filepath.Join(l.root, "libraries")
}

// Library is the local path of a repository-relative artifact path.
func (l Layout) Library(artifactPath string) string {
	return filepath.Join(l.LibrariesDir(), filepath.FromSlash(Clean(artifactPath)))
}

// AssetsDir is the assets root passed to the game.
func (l Layout) AssetsDir() string {
	return filepath.Join(l.root, "assets")
}

// AssetIndex is the cached asset index document.
func (l Layout) AssetIndex(id string) string {
	return filepath.Join(l.AssetsDir(), "indexes", Clean(id)+".json")
}

// AssetObject is the content-addressed location of an asset object.
func (l Layout) AssetObject(d fetch.Digest) string {
	return filepath.Join(l.AssetsDir(), "objects", d.Prefix(), d.String())
}

// LogConfig is the downloaded client logging configuration.
func (l Layout) LogConfig(id string) string {
	return filepath.Join(l.AssetsDir(), "log_configs", Clean(id))
}

// InstancesDir holds one directory per instance.
func (l Layout) InstancesDir() string {
	return filepath.Join(l.root, "instances")
}

// InstanceDir is the directory of one instance. Callers validate id first.
func (l Layout) InstanceDir(id string) string {
	return filepath.Join(l.InstancesDir(), id)
}

// InstanceMeta is the metadata document of one instance.
func (l Layout) InstanceMeta(id string) string {
	return filepath.Join(l.InstanceDir(id), MetaFile)
}

// Clean normalizes a relative path taken from a remote document or archive so
// it cannot escape the directory it is joined to. Backslashes count as
// separators. Drive letters and leading slashes are stripped, and ".."
// segments never climb above the root. The result uses forward slashes and is
// empty when nothing remains.
func Clean(p string) string {
	s := strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")

	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	return strings.Join(stack, "/")
}
