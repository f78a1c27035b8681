// SPDX-License-Identifier: MPL-2.0

// Package library materializes a version's libraries: classpath artifacts
// are downloaded into the shared library store and native bundles are
// downloaded and unpacked into the version's natives directory.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/layout"
	"github.com/kkx/mcl/internal/manifest"
	"github.com/kkx/mcl/internal/rules"
	"github.com/kkx/mcl/pkg/platform"
)

var (
	// ErrUnsupportedPlatform is returned when no native bundle is published
	// for the running operating system.
	ErrUnsupportedPlatform = errors.New("unsupported platform for native libraries")

	// ErrClassifierMissing is returned when a natives library does not list
	// the classifier selected for the running platform.
	ErrClassifierMissing = errors.New("native classifier missing")
)

type (
	// UnsupportedPlatformError wraps ErrUnsupportedPlatform with the platform.
	UnsupportedPlatformError struct {
		Library  string
		Platform platform.Platform
	}

	// ClassifierMissingError wraps ErrClassifierMissing with the lookup.
	ClassifierMissingError struct {
		Library    string
		Classifier string
	}

	// Materializer downloads libraries for one platform into one data directory.
	Materializer struct {
		client   *fetch.Client
		layout   layout.Layout
		platform platform.Platform
	}
)

// Error implements the error interface.
func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("library %s: no native bundle for %s", e.Library, e.Platform)
}

// Unwrap returns ErrUnsupportedPlatform so callers can use errors.Is.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

// Error implements the error interface.
func (e *ClassifierMissingError) Error() string {
	return fmt.Sprintf("library %s: classifier %q not published", e.Library, e.Classifier)
}

// Unwrap returns ErrClassifierMissing so callers can use errors.Is.
func (e *ClassifierMissingError) Unwrap() error { return ErrClassifierMissing }

// New returns a Materializer writing under l for platform p.
func New(client *fetch.Client, l layout.Layout, p platform.Platform) *Materializer {
	return &Materializer{client: client, layout: l, platform: p}
}

// Materialize makes lib available for versionID.
//
// An artifact library is fetched into the library store, with the fetch
// skipped when its rules disallow it. A natives library whose rules disallow
// it is ignored; otherwise the classifier for the platform is fetched and
// extracted into the version's natives directory.
func (m *Materializer) Materialize(ctx context.Context, versionID string, lib *manifest.Library) (fetch.Result, error) {
	allowed := rules.Allowed(lib.Rules, m.platform)

	switch lib.Kind {
	case manifest.ArtifactLibrary:
		return m.client.FetchAndCache(ctx, lib.Artifact.URL, m.layout.Library(lib.Artifact.Path), lib.Artifact.Hash(), !allowed)

	case manifest.NativesLibrary:
		if !allowed {
			return fetch.Skipped, nil
		}
		artifact, err := m.selectClassifier(lib)
		if err != nil {
			return 0, err
		}
		archive := m.layout.Library(artifact.Path)
		res, err := m.client.FetchAndCache(ctx, artifact.URL, archive, artifact.Hash(), false)
		if err != nil {
			return 0, err
		}
		if err := extract(archive, m.layout.NativesDir(versionID), lib.Excluded); err != nil {
			return 0, fmt.Errorf("extracting natives of %s: %w", lib.Name, err)
		}
		return res, nil

	default:
		return 0, fmt.Errorf("%w: %s", manifest.ErrUnknownLibraryShape, lib.Name)
	}
}

// ClasspathEntries returns the local paths of the allowed artifact libraries,
// in list order. Natives bundles never contribute classpath entries.
func (m *Materializer) ClasspathEntries(libs []manifest.Library) []string {
	var entries []string
	for i := range libs {
		lib := &libs[i]
		if lib.Kind != manifest.ArtifactLibrary || !rules.Allowed(lib.Rules, m.platform) {
			continue
		}
		entries = append(entries, m.layout.Library(lib.Artifact.Path))
	}
	return entries
}

// selectClassifier picks the bundle for the platform: the library's own
// natives map first, with ${arch} replaced by the pointer width, then the
// fixed per-OS classifier names.
func (m *Materializer) selectClassifier(lib *manifest.Library) (manifest.Artifact, error) {
	key, ok := lib.Natives[m.platform.Name]
	if ok {
		key = strings.ReplaceAll(key, "${arch}", m.platform.Bits())
	} else if key, ok = m.platform.NativesClassifier(); !ok {
		return manifest.Artifact{}, &UnsupportedPlatformError{Library: lib.Name, Platform: m.platform}
	}

	artifact, ok := lib.Classifiers[key]
	if !ok {
		return manifest.Artifact{}, &ClassifierMissingError{Library: lib.Name, Classifier: key}
	}
	return artifact, nil
}
