// SPDX-License-Identifier: MPL-2.0

// Package rules evaluates the allow/disallow rule lists attached to libraries
// and conditional launch arguments.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kkx/mcl/pkg/platform"
)

const (
	// Allow enables the guarded item when the rule matches.
	Allow Action = "allow"
	// Disallow disables the guarded item when the rule matches.
	Disallow Action = "disallow"
)

// ErrInvalidAction is returned when a rule action is neither allow nor disallow.
var ErrInvalidAction = errors.New("invalid rule action")

type (
	// Action is the outcome a matching rule applies.
	Action string

	// InvalidActionError is returned when an Action value is not recognized.
	// It wraps ErrInvalidAction for errors.Is() compatibility.
	InvalidActionError struct {
		Value Action
	}

	// Rule is a single entry of a rule list.
	Rule struct {
		Action   Action    `json:"action"`
		OS       *OSRule   `json:"os,omitempty"`
		Features *Features `json:"features,omitempty"`
	}

	// OSRule constrains the host operating system. Version is carried for
	// round-tripping but never consulted.
	OSRule struct {
		Name    string `json:"name,omitempty"`
		Arch    string `json:"arch,omitempty"`
		Version string `json:"version,omitempty"`
	}

	// Features names launcher feature flags a rule depends on.
	Features struct {
		IsDemoUser          *bool `json:"is_demo_user,omitempty"`
		HasCustomResolution *bool `json:"has_custom_resolution,omitempty"`
	}
)

// Error implements the error interface.
func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("invalid rule action %q (valid: allow, disallow)", e.Value)
}

// Unwrap returns ErrInvalidAction so callers can use errors.Is.
func (e *InvalidActionError) Unwrap() error { return ErrInvalidAction }

// String returns the string representation of the Action.
func (a Action) String() string { return string(a) }

// Validate returns nil if the Action is allow or disallow.
func (a Action) Validate() error {
	switch a {
	case Allow, Disallow:
		return nil
	default:
		return &InvalidActionError{Value: a}
	}
}

// UnmarshalJSON rejects unknown actions at decode time.
func (a *Action) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := Action(s).Validate(); err != nil {
		return err
	}
	*a = Action(s)
	return nil
}

// Evaluate folds rules in order: each matching rule sets the result from its
// action, so the last match wins. With no matching rule (including an empty
// list) the result is false.
func Evaluate(rules []Rule, p platform.Platform) bool {
	result := false
	for i := range rules {
		if rules[i].Matches(p) {
			result = rules[i].Action == Allow
		}
	}
	return result
}

// Allowed treats a nil rule list as unconditional. A non-nil empty list is
// evaluated like any other list and therefore disallows.
func Allowed(rules []Rule, p platform.Platform) bool {
	return rules == nil || Evaluate(rules, p)
}

// Matches reports whether the rule's predicates hold on p. A rule without
// predicates always matches.
func (r *Rule) Matches(p platform.Platform) bool {
	switch {
	case r.OS != nil && r.Features != nil:
		return r.OS.Matches(p) && r.Features.Matches()
	case r.OS != nil:
		return r.OS.Matches(p)
	case r.Features != nil:
		return r.Features.Matches()
	default:
		return true
	}
}

// Matches compares name and arch against p. An OS rule naming neither never
// matches.
func (o *OSRule) Matches(p platform.Platform) bool {
	switch {
	case o.Name != "" && o.Arch != "":
		return o.Name == p.Name && o.Arch == p.Arch
	case o.Name != "":
		return o.Name == p.Name
	case o.Arch != "":
		return o.Arch == p.Arch
	default:
		return false
	}
}

// Matches always reports false: no launcher features are ever enabled, so
// demo-mode and custom-resolution arguments stay off.
func (f *Features) Matches() bool {
	return false
}
