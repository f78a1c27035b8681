// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/kkx/mcl/internal/fetch"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// AssetIndex maps logical asset names to content-addressed objects.
	AssetIndex struct {
		Objects map[string]Asset `json:"objects"`
	}

	// Asset is one content-addressed object.
	Asset struct {
		Hash fetch.Digest `json:"hash"`
		Size int64        `json:"size"`
	}
)

// Names returns the asset names in lexical order.
func (idx *AssetIndex) Names() []string {
	names := maps.Keys(idx.Objects)
	slices.Sort(names)
	return names
}

// ObjectPath returns the object's path relative to an objects root,
// "<hh>/<hash>" where hh is the first two hex characters of the digest.
func (a Asset) ObjectPath() string {
	return a.Hash.Prefix() + "/" + a.Hash.String()
}
