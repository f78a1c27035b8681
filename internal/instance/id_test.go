// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"errors"
	"testing"
)

func TestValidateID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id      string
		wantErr bool
	}{
		{"vanilla", false},
		{"1.20.1 modded", false},
		{"my-pack_2", false},
		{"", true},
		{"   ", true},
		{".", true},
		{"..", true},
		{"a/b", true},
		{`a\b`, true},
		{"nul\x00byte", true},
		{"CON", true},
		{"com1.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			t.Parallel()

			err := ValidateID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidID) {
				t.Errorf("ValidateID(%q) error should wrap ErrInvalidID, got %v", tt.id, err)
			}
			var idErr *InvalidIDError
			if !errors.As(err, &idErr) || idErr.ID != tt.id {
				t.Errorf("ValidateID(%q) error = %#v, want *InvalidIDError for the id", tt.id, err)
			}
		})
	}
}
