// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kkx/mcl/internal/rules"
)

// ErrInvalidArgument is returned when a raw argument is neither a string nor a
// conditional object.
var ErrInvalidArgument = errors.New("invalid argument entry")

// RawArgument is one entry of a version document's argument list: either an
// unconditional string or a rule-guarded value with one or more tokens.
type RawArgument struct {
	// Values holds the tokens in order. An unconditional entry has one.
	Values []string
	// Rules guards a conditional entry.
	Rules []rules.Rule
	// Conditional is true for object-form entries.
	Conditional bool
}

type conditionalArgument struct {
	Rules []rules.Rule    `json:"rules"`
	Value json.RawMessage `json:"value"`
}

// Basic returns an unconditional argument.
func Basic(value string) RawArgument {
	return RawArgument{Values: []string{value}}
}

// UnmarshalJSON accepts "token" or {"rules": [...], "value": "token" | ["a", "b"]}.
func (a *RawArgument) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Basic(s)
		return nil
	}

	var c conditionalArgument
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	values, err := decodeValue(c.Value)
	if err != nil {
		return err
	}
	*a = RawArgument{Values: values, Rules: c.Rules, Conditional: true}
	return nil
}

// MarshalJSON writes the same shapes UnmarshalJSON accepts.
func (a RawArgument) MarshalJSON() ([]byte, error) {
	if !a.Conditional && len(a.Values) == 1 {
		return json.Marshal(a.Values[0])
	}
	var value any = a.Values
	if len(a.Values) == 1 {
		value = a.Values[0]
	}
	rs := a.Rules
	if rs == nil {
		rs = []rules.Rule{}
	}
	return json.Marshal(struct {
		Rules []rules.Rule `json:"rules"`
		Value any          `json:"value"`
	}{rs, value})
}

func decodeValue(raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var multiple []string
	if err := json.Unmarshal(raw, &multiple); err != nil {
		return nil, fmt.Errorf("%w: value must be a string or a list of strings", ErrInvalidArgument)
	}
	return multiple, nil
}
