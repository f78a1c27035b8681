// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kkx/mcl/internal/fetch"
)

// DefaultURL is the location of the official version manifest.
const DefaultURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// Version types as published by the manifest.
const (
	TypeRelease  VersionType = "release"
	TypeSnapshot VersionType = "snapshot"
	TypeOldBeta  VersionType = "old_beta"
	TypeOldAlpha VersionType = "old_alpha"
)

// ErrVersionNotFound is returned when no manifest entry satisfies a selector.
var ErrVersionNotFound = errors.New("version not found")

type (
	// VersionType classifies a manifest entry. Unknown values are kept as is.
	VersionType string

	// VersionManifest lists every published version, newest first.
	VersionManifest struct {
		Latest   LatestVersions `json:"latest"`
		Versions []Entry        `json:"versions"`
	}

	// LatestVersions names the newest release and snapshot ids.
	LatestVersions struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	}

	// Entry points at one version document.
	Entry struct {
		ID              string       `json:"id"`
		Type            VersionType  `json:"type"`
		URL             string       `json:"url"`
		Time            string       `json:"time"`
		ReleaseTime     string       `json:"releaseTime"`
		SHA1            fetch.Digest `json:"sha1"`
		ComplianceLevel int          `json:"complianceLevel"`
	}

	// VersionNotFoundError is returned by Resolve when no entry matches.
	// It wraps ErrVersionNotFound for errors.Is() compatibility.
	VersionNotFoundError struct {
		Selector Selector
	}
)

// String returns the string representation of the VersionType.
func (t VersionType) String() string { return string(t) }

// Error implements the error interface.
func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("no version matches %q", e.Selector)
}

// Unwrap returns ErrVersionNotFound so callers can use errors.Is.
func (e *VersionNotFoundError) Unwrap() error { return ErrVersionNotFound }

// Resolve returns the first entry matching sel, in manifest order: any entry
// for latest, the first release for stable, the first equal id otherwise.
func (m *VersionManifest) Resolve(sel Selector) (*Entry, error) {
	match := func(*Entry) bool { return false }
	if tag, ok := sel.Tag(); ok {
		switch tag {
		case TagLatest:
			match = func(*Entry) bool { return true }
		case TagStable:
			match = func(e *Entry) bool { return e.Type == TypeRelease }
		}
	} else if id, ok := sel.ID(); ok {
		match = func(e *Entry) bool { return e.ID == id }
	}

	for i := range m.Versions {
		if match(&m.Versions[i]) {
			return &m.Versions[i], nil
		}
	}
	return nil, &VersionNotFoundError{Selector: sel}
}

// Fetch returns the manifest at url, cached at path and trusted for ttl.
func Fetch(ctx context.Context, c *fetch.Client, url, path string, ttl time.Duration) (*VersionManifest, error) {
	m, err := fetch.GetJSON[VersionManifest](ctx, c, url, path, fetch.NoHash(), ttl)
	if err != nil {
		return nil, fmt.Errorf("loading version manifest: %w", err)
	}
	return &m, nil
}

// FetchVersion returns the version document the entry points at, cached at
// path and verified against the entry's digest.
func (e *Entry) FetchVersion(ctx context.Context, c *fetch.Client, path string) (*Version, error) {
	v, err := fetch.GetJSON[Version](ctx, c, e.URL, path, fetch.SHA1(e.SHA1), 0)
	if err != nil {
		return nil, fmt.Errorf("loading version %s: %w", e.ID, err)
	}
	return &v, nil
}
