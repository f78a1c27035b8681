// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kkx/mcl/pkg/platform"
)

// ErrInvalidID is returned when an instance id is not a safe directory name.
var ErrInvalidID = errors.New("invalid instance id")

// InvalidIDError wraps ErrInvalidID with the id and the reason.
type InvalidIDError struct {
	ID     string
	Reason string
}

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid instance id %q: %s", e.ID, e.Reason)
}

// Unwrap returns ErrInvalidID so callers can use errors.Is.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidID }

// ValidateID checks that id can name a directory on every supported OS.
func ValidateID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return &InvalidIDError{ID: id, Reason: "must not be empty"}
	case id == "." || id == "..":
		return &InvalidIDError{ID: id, Reason: "must not be a relative path element"}
	case strings.ContainsAny(id, `/\`):
		return &InvalidIDError{ID: id, Reason: "must not contain path separators"}
	case strings.ContainsRune(id, 0):
		return &InvalidIDError{ID: id, Reason: "must not contain NUL"}
	case platform.IsWindowsReservedName(id):
		return &InvalidIDError{ID: id, Reason: "is a reserved device name on Windows"}
	}
	return nil
}
