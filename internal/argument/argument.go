// SPDX-License-Identifier: MPL-2.0

// Package argument turns a version document's raw argument lists into typed
// launch arguments and renders them with ${name} substitution.
package argument

import (
	"fmt"
	"strings"

	"github.com/kkx/mcl/internal/manifest"
	"github.com/kkx/mcl/internal/rules"
	"github.com/kkx/mcl/pkg/platform"
)

const (
	// SingleKind is one token, substituted as a whole.
	SingleKind Kind = iota + 1
	// EqKind is a "key=value" token whose value is substituted.
	EqKind
	// PairKind is a flag token followed by a substituted value token.
	PairKind
)

type (
	// Kind discriminates the argument shapes.
	Kind int

	// Argument is one launch argument. Key is empty for SingleKind.
	Argument struct {
		Kind  Kind
		Key   string
		Value string
	}
)

// Single returns a one-token argument.
func Single(value string) Argument { return Argument{Kind: SingleKind, Value: value} }

// Eq returns a "key=value" argument.
func Eq(key, value string) Argument { return Argument{Kind: EqKind, Key: key, Value: value} }

// Pair returns a two-token argument.
func Pair(key, value string) Argument { return Argument{Kind: PairKind, Key: key, Value: value} }

// String renders the argument without substitution, for diagnostics.
func (a Argument) String() string {
	switch a.Kind {
	case SingleKind:
		return a.Value
	case EqKind:
		return a.Key + "=" + a.Value
	case PairKind:
		return a.Key + " " + a.Value
	default:
		return fmt.Sprintf("Argument(%d)", int(a.Kind))
	}
}

// Normalize activates raw arguments for p and infers their shapes.
//
// Activation keeps every unconditional token and the tokens of conditional
// entries whose rules evaluate true, in order; empty tokens are dropped.
// Shape inference then walks the tokens: a token starting with '$' is Single;
// a token containing '=' is Eq split at the first '='; a token followed by a
// '$'-prefixed token forms a Pair with it; anything else is Single.
func Normalize(raw []manifest.RawArgument, p platform.Platform) []Argument {
	tokens := activate(raw, p)

	out := make([]Argument, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if strings.HasPrefix(tok, "$") {
			out = append(out, Single(tok))
			continue
		}
		if key, value, ok := strings.Cut(tok, "="); ok {
			out = append(out, Eq(key, value))
			continue
		}
		if i+1 < len(tokens) && strings.HasPrefix(tokens[i+1], "$") {
			out = append(out, Pair(tok, tokens[i+1]))
			i++
			continue
		}
		out = append(out, Single(tok))
	}
	return out
}

// FromLegacy splits a pre-1.13 minecraftArguments string on whitespace and
// normalizes the tokens as unconditional arguments.
func FromLegacy(s string, p platform.Platform) []Argument {
	fields := strings.Fields(s)
	raw := make([]manifest.RawArgument, 0, len(fields))
	for _, f := range fields {
		raw = append(raw, manifest.Basic(f))
	}
	return Normalize(raw, p)
}

// DefaultJVM returns the JVM arguments older version documents leave implicit.
func DefaultJVM() []Argument {
	return []Argument{
		Eq("-Djava.library.path", "${natives_directory}"),
		Pair("-cp", "${classpath}"),
	}
}

func activate(raw []manifest.RawArgument, p platform.Platform) []string {
	var tokens []string
	for i := range raw {
		if raw[i].Conditional && !rules.Evaluate(raw[i].Rules, p) {
			continue
		}
		for _, v := range raw[i].Values {
			if v != "" {
				tokens = append(tokens, v)
			}
		}
	}
	return tokens
}
