// SPDX-License-Identifier: MPL-2.0

package argument

import "strings"

// ReplacePlaceholders substitutes every ${name} in template with vars[name].
// It returns false when any referenced name is missing. A "${" with no closing
// brace discards the rest of the template.
func ReplacePlaceholders(template string, vars map[string]string) (string, bool) {
	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, "${")
		if start < 0 {
			b.WriteString(rest)
			return b.String(), true
		}
		b.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return b.String(), true
		}
		value, ok := vars[rest[:end]]
		if !ok {
			return "", false
		}
		b.WriteString(value)
		rest = rest[end+1:]
	}
}

// Render substitutes vars into args and flattens them into command-line
// tokens. An argument whose value references an unbound variable is dropped
// entirely, both tokens for a Pair. Keys are emitted verbatim.
func Render(args []Argument, vars map[string]string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		value, ok := ReplacePlaceholders(a.Value, vars)
		if !ok {
			continue
		}
		switch a.Kind {
		case SingleKind:
			out = append(out, value)
		case EqKind:
			out = append(out, a.Key+"="+value)
		case PairKind:
			out = append(out, a.Key, value)
		}
	}
	return out
}
