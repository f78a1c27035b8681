// SPDX-License-Identifier: MPL-2.0

package component

import (
	"context"
	"fmt"
)

// FabricLoader is the mod loader. It is not registered, so instances cannot
// persist or create it by kind.
type FabricLoader struct {
	Version Selector `json:"version"`
}

// Kind returns KindFabricLoader.
func (FabricLoader) Kind() Kind { return KindFabricLoader }

// Selector returns the selected version.
func (f FabricLoader) Selector() Selector { return f.Version }

// IsCompatible always reports true.
func (FabricLoader) IsCompatible(Component) bool { return true }

// Install returns ErrNotImplemented.
func (FabricLoader) Install(context.Context, *Env, *State) error {
	return fmt.Errorf("%s: %w", KindFabricLoader, ErrNotImplemented)
}
