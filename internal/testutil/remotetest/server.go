// SPDX-License-Identifier: MPL-2.0

package remotetest

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/manifest"
	"github.com/kkx/mcl/internal/rules"
)

const (
	manifestPath  = "/mc/game/version_manifest_v2.json"
	resourcesPath = "/resources"
)

type (
	// Server is a fake distribution server. It is safe for concurrent use.
	Server struct {
		srv *httptest.Server

		mu       sync.Mutex
		files    map[string][]byte
		failures map[string]int
		hits     map[string]int
		entries  []manifest.Entry
	}

	// VersionOption configures a published version document.
	VersionOption func(s *Server, v *manifest.Version)
)

// NewServer starts a server with an empty manifest. It is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		files:    make(map[string][]byte),
		failures: make(map[string]int),
		hits:     make(map[string]int),
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.srv.Close)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.srv.URL }

// ManifestURL returns the version manifest location.
func (s *Server) ManifestURL() string { return s.srv.URL + manifestPath }

// ResourcesURL returns the asset object host.
func (s *Server) ResourcesURL() string { return s.srv.URL + resourcesPath }

// Endpoints returns endpoints pointing at the server.
func (s *Server) Endpoints() component.Endpoints {
	return component.Endpoints{ManifestURL: s.ManifestURL(), ResourcesURL: s.ResourcesURL()}
}

// Publish serves body at path and returns its URL and digest.
func (s *Server) Publish(path string, body []byte) (string, fetch.Digest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = body
	return s.srv.URL + path, fetch.Sum(body)
}

// Fail makes path answer with status instead of its content.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = status
}

// Hits returns how many requests path received.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns how many requests the server received.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, h := range s.hits {
		n += h
	}
	return n
}

// ManifestHits returns how many times the manifest was requested.
func (s *Server) ManifestHits() int { return s.Hits(manifestPath) }

// AddVersion publishes a version document and appends its manifest entry.
// Entries keep insertion order, so the first added version is "latest".
// The version gets a client jar and an empty asset index unless options
// add more.
func (s *Server) AddVersion(id string, typ manifest.VersionType, opts ...VersionOption) *manifest.Version {
	clientURL, clientSum := s.Publish("/v1/objects/"+id+"/client.jar", []byte("client-"+id))
	v := &manifest.Version{
		ID:                     id,
		Type:                   typ,
		MainClass:              component.DefaultMainClass,
		MinimumLauncherVersion: 21,
		Downloads: manifest.Downloads{
			Client: manifest.Download{SHA1: clientSum, URL: clientURL, Size: int64(len("client-" + id))},
		},
		Libraries: []manifest.Library{},
	}
	WithAssets(nil)(s, v)
	for _, opt := range opts {
		opt(s, v)
	}

	doc, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	docURL, docSum := s.Publish("/v1/packages/"+id+".json", doc)

	s.mu.Lock()
	s.entries = append(s.entries, manifest.Entry{ID: id, Type: typ, URL: docURL, SHA1: docSum})
	s.mu.Unlock()
	return v
}

// LibraryPath returns the server path of a library artifact.
func LibraryPath(path string) string { return "/libraries/" + path }

// WithLibrary adds an artifact library with the given rules (nil for none).
func WithLibrary(name, path string, libRules []rules.Rule) VersionOption {
	return func(s *Server, v *manifest.Version) {
		body := []byte("jar:" + name)
		url, sum := s.Publish(LibraryPath(path), body)
		v.Libraries = append(v.Libraries, manifest.Library{
			Kind:     manifest.ArtifactLibrary,
			Name:     name,
			Rules:    libRules,
			Artifact: manifest.Artifact{Path: path, SHA1: sum, Size: int64(len(body)), URL: url},
		})
	}
}

// WithNatives adds a natives library with one zip bundle per classifier.
func WithNatives(name string, bundles map[string][]byte) VersionOption {
	return func(s *Server, v *manifest.Version) {
		classifiers := make(map[string]manifest.Artifact, len(bundles))
		for classifier, body := range bundles {
			path := name + "-" + classifier + ".jar"
			url, sum := s.Publish(LibraryPath(path), body)
			classifiers[classifier] = manifest.Artifact{Path: path, SHA1: sum, Size: int64(len(body)), URL: url}
		}
		v.Libraries = append(v.Libraries, manifest.Library{
			Kind:        manifest.NativesLibrary,
			Name:        name,
			Classifiers: classifiers,
		})
	}
}

// WithAssets publishes an asset index named after the version and its objects.
func WithAssets(objects map[string]string) VersionOption {
	return func(s *Server, v *manifest.Version) {
		idx := manifest.AssetIndex{Objects: make(map[string]manifest.Asset, len(objects))}
		for name, content := range objects {
			sum := fetch.Sum([]byte(content))
			idx.Objects[name] = manifest.Asset{Hash: sum, Size: int64(len(content))}
			s.Publish(resourcesPath+"/"+sum.Prefix()+"/"+sum.String(), []byte(content))
		}
		body, err := json.Marshal(idx)
		if err != nil {
			panic(err)
		}
		url, sum := s.Publish("/v1/packages/assets-"+v.ID+".json", body)
		v.AssetIndex = manifest.AssetIndexRef{ID: v.ID, SHA1: sum, Size: int64(len(body)), URL: url}
		v.Assets = v.ID
	}
}

// WithArguments sets modern argument lists.
func WithArguments(jvm, game []manifest.RawArgument) VersionOption {
	return func(_ *Server, v *manifest.Version) {
		v.Arguments = &manifest.Arguments{JVM: jvm, Game: game}
	}
}

// WithLegacyArguments sets a pre-1.13 minecraftArguments string.
func WithLegacyArguments(args string) VersionOption {
	return func(_ *Server, v *manifest.Version) {
		v.MinecraftArguments = args
	}
}

// WithMainClass overrides the main class.
func WithMainClass(class string) VersionOption {
	return func(_ *Server, v *manifest.Version) {
		v.MainClass = class
	}
}

// WithLogging publishes a client logging configuration.
func WithLogging(argument, content string) VersionOption {
	return func(s *Server, v *manifest.Version) {
		id := "client-" + v.ID + ".xml"
		url, sum := s.Publish("/v1/objects/"+id, []byte(content))
		v.Logging = &manifest.Logging{Client: &manifest.LoggingClient{
			Argument: argument,
			Type:     "log4j2-xml",
			File:     manifest.LoggingFile{ID: id, SHA1: sum, Size: int64(len(content)), URL: url},
		}}
	}
}

// Zip builds an archive from name to content. Names ending in "/" are
// directory entries.
func Zip(t testing.TB, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	status, failing := s.failures[r.URL.Path]
	body, ok := s.files[r.URL.Path]
	entries := append([]manifest.Entry(nil), s.entries...)
	s.mu.Unlock()

	switch {
	case failing:
		w.WriteHeader(status)
	case r.URL.Path == manifestPath:
		m := manifest.VersionManifest{Versions: entries}
		for _, e := range entries {
			if e.Type == manifest.TypeRelease && m.Latest.Release == "" {
				m.Latest.Release = e.ID
			}
			if e.Type == manifest.TypeSnapshot && m.Latest.Snapshot == "" {
				m.Latest.Snapshot = e.ID
			}
		}
		_ = json.NewEncoder(w).Encode(m)
	case ok:
		_, _ = w.Write(body)
	default:
		http.NotFound(w, r)
	}
}
