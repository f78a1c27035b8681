// SPDX-License-Identifier: MPL-2.0

package rules

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kkx/mcl/pkg/platform"
)

var (
	linux64 = platform.From(platform.Linux, "amd64")
	osxARM  = platform.From(platform.Darwin, "arm64")
	win32   = platform.From(platform.Windows, "386")
)

func ptr[T any](v T) *T { return &v }

func TestEvaluate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules []Rule
		p     platform.Platform
		want  bool
	}{
		{
			name:  "empty list is false",
			rules: []Rule{},
			p:     linux64,
			want:  false,
		},
		{
			name:  "unconditional allow",
			rules: []Rule{{Action: Allow}},
			p:     linux64,
			want:  true,
		},
		{
			name:  "allow then disallow osx on osx",
			rules: []Rule{{Action: Allow}, {Action: Disallow, OS: &OSRule{Name: "osx"}}},
			p:     osxARM,
			want:  false,
		},
		{
			name:  "allow then disallow osx on linux",
			rules: []Rule{{Action: Allow}, {Action: Disallow, OS: &OSRule{Name: "osx"}}},
			p:     linux64,
			want:  true,
		},
		{
			name:  "os-only allow for other os",
			rules: []Rule{{Action: Allow, OS: &OSRule{Name: "windows"}}},
			p:     linux64,
			want:  false,
		},
		{
			name:  "arch only",
			rules: []Rule{{Action: Allow, OS: &OSRule{Arch: "x86"}}},
			p:     win32,
			want:  true,
		},
		{
			name:  "name and arch must both match",
			rules: []Rule{{Action: Allow, OS: &OSRule{Name: "windows", Arch: "x86_64"}}},
			p:     win32,
			want:  false,
		},
		{
			name:  "os rule without name or arch never matches",
			rules: []Rule{{Action: Allow, OS: &OSRule{Version: "^10\\."}}},
			p:     win32,
			want:  false,
		},
		{
			name:  "feature rule never matches",
			rules: []Rule{{Action: Allow, Features: &Features{IsDemoUser: ptr(true)}}},
			p:     linux64,
			want:  false,
		},
		{
			name: "feature rule does not override earlier match",
			rules: []Rule{
				{Action: Allow},
				{Action: Disallow, Features: &Features{HasCustomResolution: ptr(true)}},
			},
			p:    linux64,
			want: true,
		},
		{
			name:  "os and features is a conjunction",
			rules: []Rule{{Action: Allow, OS: &OSRule{Name: "linux"}, Features: &Features{IsDemoUser: ptr(true)}}},
			p:     linux64,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Evaluate(tt.rules, tt.p); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllowed(t *testing.T) {
	t.Parallel()

	if !Allowed(nil, linux64) {
		t.Error("Allowed(nil) = false, want true")
	}
	if Allowed([]Rule{}, linux64) {
		t.Error("Allowed([]) = true, want false")
	}
}

func TestDecodeRules(t *testing.T) {
	t.Parallel()

	raw := `[{"action":"allow"},{"action":"disallow","os":{"name":"osx"}},{"action":"allow","features":{"is_demo_user":true}}]`
	var got []Rule
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].OS == nil || got[1].OS.Name != "osx" || got[1].Action != Disallow {
		t.Errorf("rule[1] = %+v, want disallow osx", got[1])
	}
	if got[2].Features == nil || got[2].Features.IsDemoUser == nil || !*got[2].Features.IsDemoUser {
		t.Errorf("rule[2] features = %+v, want is_demo_user", got[2].Features)
	}

	err := json.Unmarshal([]byte(`[{"action":"maybe"}]`), &got)
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("Unmarshal(maybe) error = %v, want ErrInvalidAction", err)
	}
}
