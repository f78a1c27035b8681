// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/rules"
)

const (
	// ArtifactLibrary is a single jar placed on the classpath.
	ArtifactLibrary LibraryKind = iota + 1
	// NativesLibrary is a per-OS bundle of native code extracted before launch.
	NativesLibrary
)

// ErrUnknownLibraryShape is returned when a library has neither classifiers
// nor an artifact.
var ErrUnknownLibraryShape = errors.New("library has neither classifiers nor artifact")

type (
	// LibraryKind discriminates the two library shapes.
	LibraryKind int

	// Library is one entry of a version's library list.
	//
	// Decoding is structural: a downloads.classifiers object, even an empty one, makes a
	// NativesLibrary, otherwise a downloads.artifact makes an ArtifactLibrary.
	// Libraries publishing both are treated as natives.
	Library struct {
		Kind LibraryKind
		Name string
		// Rules is nil when the document has no rules key. An empty non-nil
		// slice came from "rules": [] and evaluates to false.
		Rules []rules.Rule

		// Artifact is set for ArtifactLibrary.
		Artifact Artifact
		// Classifiers maps classifier keys to bundles, for NativesLibrary.
		Classifiers map[string]Artifact
		// Natives optionally maps rule OS names to classifier keys, which may
		// contain ${arch}.
		Natives map[string]string
		// Extract optionally overrides the default exclusion of META-INF/.
		Extract *Extract
	}

	// Artifact is a downloadable jar addressed by its repository path.
	Artifact struct {
		Path string       `json:"path"`
		SHA1 fetch.Digest `json:"sha1"`
		Size int64        `json:"size"`
		URL  string       `json:"url"`
	}

	// Extract lists entry name prefixes skipped while extracting natives.
	Extract struct {
		Exclude []string `json:"exclude"`
	}

	libraryWire struct {
		Name      string            `json:"name"`
		Rules     []rules.Rule      `json:"rules"`
		Downloads libraryDownloads  `json:"downloads"`
		Natives   map[string]string `json:"natives,omitempty"`
		Extract   *Extract          `json:"extract,omitempty"`
	}

	libraryDownloads struct {
		Artifact    *Artifact           `json:"artifact,omitempty"`
		Classifiers map[string]Artifact `json:"classifiers,omitzero"`
	}
)

// String returns "artifact" or "natives".
func (k LibraryKind) String() string {
	switch k {
	case ArtifactLibrary:
		return "artifact"
	case NativesLibrary:
		return "natives"
	default:
		return fmt.Sprintf("LibraryKind(%d)", int(k))
	}
}

// Hash returns the verification hash for the artifact.
func (a *Artifact) Hash() fetch.Hash { return fetch.SHA1(a.SHA1) }

// UnmarshalJSON decodes a library by shape.
func (l *Library) UnmarshalJSON(data []byte) error {
	var w libraryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	lib := Library{
		Name:    w.Name,
		Rules:   w.Rules,
		Natives: w.Natives,
		Extract: w.Extract,
	}
	switch {
	case w.Downloads.Classifiers != nil:
		lib.Kind = NativesLibrary
		lib.Classifiers = w.Downloads.Classifiers
	case w.Downloads.Artifact != nil:
		lib.Kind = ArtifactLibrary
		lib.Artifact = *w.Downloads.Artifact
	default:
		return fmt.Errorf("%w: %s", ErrUnknownLibraryShape, w.Name)
	}
	*l = lib
	return nil
}

// MarshalJSON writes the wire shape UnmarshalJSON reads.
func (l Library) MarshalJSON() ([]byte, error) {
	w := libraryWire{
		Name:    l.Name,
		Rules:   l.Rules,
		Natives: l.Natives,
		Extract: l.Extract,
	}
	switch l.Kind {
	case NativesLibrary:
		w.Downloads.Classifiers = l.Classifiers
		if w.Downloads.Classifiers == nil {
			w.Downloads.Classifiers = map[string]Artifact{}
		}
	case ArtifactLibrary:
		a := l.Artifact
		w.Downloads.Artifact = &a
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLibraryShape, l.Name)
	}
	return json.Marshal(w)
}

// Excluded reports whether a natives archive entry is skipped during
// extraction: entries under META-INF/ by default, or under any of the
// explicit exclude prefixes when an extract block is present.
func (l *Library) Excluded(entry string) bool {
	if l.Extract == nil {
		return strings.HasPrefix(entry, "META-INF/")
	}
	for _, prefix := range l.Extract.Exclude {
		if strings.HasPrefix(entry, prefix) {
			return true
		}
	}
	return false
}
