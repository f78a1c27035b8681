// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// TagLatest selects the newest entry of the manifest, whatever its type.
	TagLatest Tag = "latest"
	// TagStable selects the newest release entry.
	TagStable Tag = "stable"
)

// ErrEmptySelector is returned when a selector has neither a tag nor an id.
var ErrEmptySelector = errors.New("empty version selector")

type (
	// Tag is a symbolic version selector.
	Tag string

	// Selector picks one manifest entry, either by tag or by exact id. It is
	// persisted as a bare JSON string: "latest", "stable" or the id.
	Selector struct {
		tag Tag
		id  string
	}
)

// Latest selects the first manifest entry.
func Latest() Selector { return Selector{tag: TagLatest} }

// Stable selects the first release entry.
func Stable() Selector { return Selector{tag: TagStable} }

// ID selects the entry with exactly this id.
func ID(id string) Selector { return Selector{id: id} }

// ParseSelector maps "latest" and "stable" to their tags and anything else to
// an id selector. An id that spells a tag therefore cannot be expressed.
func ParseSelector(s string) (Selector, error) {
	switch Tag(s) {
	case TagLatest:
		return Latest(), nil
	case TagStable:
		return Stable(), nil
	case "":
		return Selector{}, ErrEmptySelector
	default:
		return ID(s), nil
	}
}

// Tag returns the selector's tag, if it is a tag selector.
func (s Selector) Tag() (Tag, bool) { return s.tag, s.tag != "" }

// ID returns the selector's id, if it is an id selector.
func (s Selector) ID() (string, bool) { return s.id, s.tag == "" && s.id != "" }

// IsZero reports whether the selector selects nothing.
func (s Selector) IsZero() bool { return s.tag == "" && s.id == "" }

// String returns the persisted form.
func (s Selector) String() string {
	if s.tag != "" {
		return string(s.tag)
	}
	return s.id
}

// MarshalJSON encodes the selector as a bare string.
func (s Selector) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return nil, ErrEmptySelector
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a bare string selector.
func (s *Selector) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("version selector must be a string: %w", err)
	}
	parsed, err := ParseSelector(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
