// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// sha1("hello") from any sha1sum implementation.
const helloSHA1 = "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"

func TestHashVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash Hash
		data []byte
		want bool
	}{
		{"matching digest", SHA1(MustParseDigest(helloSHA1)), []byte("hello"), true},
		{"mismatching digest", SHA1(MustParseDigest(helloSHA1)), []byte("hellO"), false},
		{"empty data against digest", SHA1(MustParseDigest(helloSHA1)), nil, false},
		{"no hash accepts anything", NoHash(), []byte("anything"), true},
		{"no hash accepts empty", NoHash(), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.hash.Verify(tt.data); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDigest(t *testing.T) {
	t.Parallel()

	d, err := ParseDigest(helloSHA1)
	if err != nil {
		t.Fatalf("ParseDigest() error = %v", err)
	}
	if got := d.String(); got != helloSHA1 {
		t.Errorf("String() = %q, want %q", got, helloSHA1)
	}
	if got := d.Prefix(); got != "aa" {
		t.Errorf("Prefix() = %q, want %q", got, "aa")
	}

	for _, bad := range []string{"", "abc", strings.Repeat("z", 40), helloSHA1 + "00"} {
		if _, err := ParseDigest(bad); !errors.Is(err, ErrInvalidDigest) {
			t.Errorf("ParseDigest(%q) error = %v, want ErrInvalidDigest", bad, err)
		}
	}
}

func TestDigestJSON(t *testing.T) {
	t.Parallel()

	var obj struct {
		Hash Digest `json:"hash"`
	}
	if err := json.Unmarshal([]byte(`{"hash":"`+helloSHA1+`"}`), &obj); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if obj.Hash != Sum([]byte("hello")) {
		t.Errorf("decoded digest = %s, want %s", obj.Hash, helloSHA1)
	}

	if err := json.Unmarshal([]byte(`{"hash":"nothex"}`), &obj); !errors.Is(err, ErrInvalidDigest) {
		t.Errorf("Unmarshal(bad) error = %v, want ErrInvalidDigest", err)
	}
}

func TestHashMismatchErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := mismatch("https://example.com/a?token=secret", SHA1(MustParseDigest(helloSHA1)), []byte("x"))
	if !errors.Is(err, ErrHashMismatch) {
		t.Fatal("HashMismatchError should unwrap to ErrHashMismatch")
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("error message leaks query string: %s", err.Error())
	}
	if err.Expected != helloSHA1 {
		t.Errorf("Expected = %q, want %q", err.Expected, helloSHA1)
	}
}
