// SPDX-License-Identifier: MPL-2.0

package component

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kkx/mcl/internal/manifest"
)

func TestComponentsJSONRoundTrip(t *testing.T) {
	t.Parallel()

	cs := Components{
		MinecraftClient{Version: manifest.Latest()},
		AuthlibInjector{Version: manifest.ID("1.2.5")},
	}
	data, err := json.Marshal(cs)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"id":"minecraft-client","version":"latest"},{"id":"authlib-injector","version":"1.2.5"}]`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var back Components
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("len = %d, want 2", len(back))
	}
	if back[0].Kind() != KindMinecraftClient || back[0].Selector() != manifest.Latest() {
		t.Errorf("back[0] = %#v", back[0])
	}
	if back[1].Kind() != KindAuthlibInjector || back[1].Selector() != manifest.ID("1.2.5") {
		t.Errorf("back[1] = %#v", back[1])
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	t.Parallel()

	tests := []string{
		`[{"id":"fabric-loader","version":"latest"}]`,
		`[{"id":"optifine","version":"latest"}]`,
		`[{"version":"latest"}]`,
	}
	for _, raw := range tests {
		var cs Components
		err := json.Unmarshal([]byte(raw), &cs)
		if !errors.Is(err, ErrUnknownKind) {
			t.Errorf("Unmarshal(%s) error = %v, want ErrUnknownKind", raw, err)
		}
	}
}

func TestEncodeUnregistered(t *testing.T) {
	t.Parallel()

	_, err := json.Marshal(Components{FabricLoader{Version: manifest.Stable()}})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Marshal(fabric) error = %v, want ErrUnknownKind", err)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds() {
		c, err := New(kind, manifest.Stable())
		if err != nil {
			t.Fatalf("New(%s) error = %v", kind, err)
		}
		if c.Kind() != kind || c.Selector() != manifest.Stable() {
			t.Errorf("New(%s) = %#v", kind, c)
		}
	}
	if _, err := New(KindFabricLoader, manifest.Stable()); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New(fabric) error = %v, want ErrUnknownKind", err)
	}
}

func TestIsCompatibleAlwaysTrue(t *testing.T) {
	t.Parallel()

	all := []Component{
		MinecraftClient{Version: manifest.Latest()},
		AuthlibInjector{Version: manifest.Latest()},
		FabricLoader{Version: manifest.Latest()},
	}
	for _, a := range all {
		for _, b := range all {
			if !a.IsCompatible(b) {
				t.Errorf("%s.IsCompatible(%s) = false", a.Kind(), b.Kind())
			}
		}
	}
}

func TestComponentsHas(t *testing.T) {
	t.Parallel()

	cs := Components{MinecraftClient{Version: manifest.Latest()}}
	if !cs.Has(KindMinecraftClient) || cs.Has(KindAuthlibInjector) {
		t.Errorf("Has() mismatch for %v", cs)
	}
}

func TestStateDefaults(t *testing.T) {
	t.Parallel()

	s := NewState()
	if s.MainClass != DefaultMainClass {
		t.Errorf("MainClass = %q, want %q", s.MainClass, DefaultMainClass)
	}
	s.Set("a", "1")
	s.Set("a", "2")
	if s.Variables["a"] != "2" {
		t.Errorf("Variables = %v", s.Variables)
	}
}
