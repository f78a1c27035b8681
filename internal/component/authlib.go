// SPDX-License-Identifier: MPL-2.0

package component

import "context"

// AuthlibInjector is the authentication proxy agent. Installing it
// contributes nothing yet.
type AuthlibInjector struct {
	Version Selector `json:"version"`
}

// Kind returns KindAuthlibInjector.
func (AuthlibInjector) Kind() Kind { return KindAuthlibInjector }

// Selector returns the selected version.
func (a AuthlibInjector) Selector() Selector { return a.Version }

// IsCompatible always reports true.
func (AuthlibInjector) IsCompatible(Component) bool { return true }

// Install is a no-op.
func (AuthlibInjector) Install(context.Context, *Env, *State) error { return nil }
