// SPDX-License-Identifier: MPL-2.0

package component

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kkx/mcl/internal/manifest"
)

const (
	// KindMinecraftClient installs the game client.
	KindMinecraftClient Kind = "minecraft-client"
	// KindAuthlibInjector is the authentication proxy agent.
	KindAuthlibInjector Kind = "authlib-injector"
	// KindFabricLoader is the mod loader. It is not registered.
	KindFabricLoader Kind = "fabric-loader"
)

var (
	// ErrUnknownKind is returned when a persisted or requested kind is not registered.
	ErrUnknownKind = errors.New("unknown component kind")

	// ErrNotImplemented is returned by components whose install is not available yet.
	ErrNotImplemented = errors.New("component not implemented")
)

type (
	// Kind is the persisted discriminator of a component.
	Kind string

	// Selector chooses the version a component installs.
	Selector = manifest.Selector

	// Component is one installable unit of an instance.
	Component interface {
		// Kind returns the component's discriminator.
		Kind() Kind
		// Selector returns the version the component installs.
		Selector() Selector
		// Install resolves remote state and appends to state. It must not
		// clear what earlier components appended.
		Install(ctx context.Context, env *Env, state *State) error
		// IsCompatible reports whether the component can be installed next
		// to other. No conflicts are defined, so it always reports true.
		IsCompatible(other Component) bool
	}

	// UnknownKindError wraps ErrUnknownKind with the offending kind.
	UnknownKindError struct {
		Kind Kind
	}

	// Components is an ordered component list with discriminated JSON encoding:
	// each element is an object with an "id" field naming its kind.
	Components []Component

	registration struct {
		build  func(Selector) Component
		decode func(data []byte) (Component, error)
	}

	kindHeader struct {
		ID Kind `json:"id"`
	}
)

var registry = map[Kind]registration{
	KindMinecraftClient: {
		build:  func(s Selector) Component { return MinecraftClient{Version: s} },
		decode: decodeAs[MinecraftClient],
	},
	KindAuthlibInjector: {
		build:  func(s Selector) Component { return AuthlibInjector{Version: s} },
		decode: decodeAs[AuthlibInjector],
	},
}

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Validate returns nil if the kind is registered.
func (k Kind) Validate() error {
	if _, ok := registry[k]; !ok {
		return &UnknownKindError{Kind: k}
	}
	return nil
}

// Error implements the error interface.
func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown component kind %q (valid: %s, %s)", e.Kind, KindMinecraftClient, KindAuthlibInjector)
}

// Unwrap returns ErrUnknownKind so callers can use errors.Is.
func (e *UnknownKindError) Unwrap() error { return ErrUnknownKind }

// New creates a registered component of kind that installs sel.
func New(kind Kind, sel Selector) (Component, error) {
	reg, ok := registry[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return reg.build(sel), nil
}

// Kinds returns the registered kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindMinecraftClient, KindAuthlibInjector}
}

// Decode reads one discriminated component object.
func Decode(data []byte) (Component, error) {
	var h kindHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decoding component: %w", err)
	}
	reg, ok := registry[h.ID]
	if !ok {
		return nil, &UnknownKindError{Kind: h.ID}
	}
	c, err := reg.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s component: %w", h.ID, err)
	}
	return c, nil
}

// Encode writes c as a discriminated object, "id" first.
func Encode(c Component) ([]byte, error) {
	if err := c.Kind().Validate(); err != nil {
		return nil, err
	}
	fields, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	id, err := json.Marshal(c.Kind())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	buf.Write(id)
	if body := bytes.TrimSpace(fields[1 : len(fields)-1]); len(body) > 0 {
		buf.WriteByte(',')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON encodes every component with its discriminator.
func (cs Components) MarshalJSON() ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(cs))
	for _, c := range cs {
		data, err := Encode(c)
		if err != nil {
			return nil, err
		}
		raw = append(raw, data)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes discriminated components, rejecting unknown kinds.
func (cs *Components) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Components, 0, len(raw))
	for _, r := range raw {
		c, err := Decode(r)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

// Has reports whether a component of kind is present.
func (cs Components) Has(kind Kind) bool {
	for _, c := range cs {
		if c.Kind() == kind {
			return true
		}
	}
	return false
}

func decodeAs[T Component](data []byte) (Component, error) {
	var c T
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return c, nil
}
