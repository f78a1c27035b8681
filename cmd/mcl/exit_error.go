// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kkx/mcl/internal/component"
	"github.com/kkx/mcl/internal/config"
	"github.com/kkx/mcl/internal/fetch"
	"github.com/kkx/mcl/internal/instance"
	"github.com/kkx/mcl/internal/issue"
	"github.com/kkx/mcl/internal/library"
	"github.com/kkx/mcl/internal/manifest"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// classifyError maps a failure to its issue catalog entry, or 0 when the
// catalog has nothing specific to say.
func classifyError(err error) issue.Id {
	switch {
	case errors.Is(err, instance.ErrInvalidID):
		return issue.InvalidInstanceIdId
	case errors.Is(err, instance.ErrInstanceAlreadyExists):
		return issue.InstanceAlreadyExistsId
	case errors.Is(err, instance.ErrInstanceNotFound):
		return issue.InstanceNotFoundId
	case errors.Is(err, instance.ErrComponentAlreadyAdded):
		return issue.ComponentAlreadyAddedId
	case errors.Is(err, component.ErrUnknownKind):
		return issue.UnknownComponentKindId
	case errors.Is(err, manifest.ErrVersionNotFound):
		return issue.VersionNotFoundId
	case errors.Is(err, fetch.ErrHashMismatch):
		return issue.IntegrityFailureId
	case errors.Is(err, fetch.ErrNetwork):
		return issue.NetworkFailureId
	case errors.Is(err, library.ErrUnsupportedPlatform):
		return issue.UnsupportedPlatformId
	case errors.Is(err, fetch.ErrDecode):
		return issue.MetadataDecodeFailedId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, config.ErrInvalidConfig), isConfigError(err):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

func isConfigError(err error) bool {
	var ae *issue.ActionableError
	return errors.As(err, &ae) && (ae.Operation == "load configuration" || ae.Operation == "validate configuration")
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// include their suggestions, and verbose mode adds the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// renderError writes the styled error followed by the catalog guidance for
// its class, rendered with the glamour style matching scheme.
func renderError(w io.Writer, err error, verbose bool, scheme config.ColorScheme) {
	fmt.Fprintf(w, "\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))

	entry := issue.Get(classifyError(err))
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(glamourStyle(scheme))
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
