// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"fmt"
	"runtime"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// OS names as spelled in version document rules and classifier keys.
const (
	RuleLinux   = "linux"
	RuleOSX     = "osx"
	RuleWindows = "windows"
	RuleUnknown = "unknown"
)

// Platform is the (name, arch) pair rules are matched against.
type Platform struct {
	// GOOS is the Go operating system identifier the platform was derived from.
	GOOS string
	// Name is the rule-vocabulary OS name ("linux", "osx", "windows" or "unknown").
	Name string
	// Arch is the rule-vocabulary architecture ("x86_64", "x86", "aarch64", ...).
	Arch string
}

// Current returns the platform of the running process.
func Current() Platform {
	return From(runtime.GOOS, runtime.GOARCH)
}

// From translates Go's GOOS/GOARCH values into a Platform.
func From(goos, goarch string) Platform {
	return Platform{
		GOOS: goos,
		Name: ruleName(goos),
		Arch: ruleArch(goarch),
	}
}

// String renders the platform as "name/arch".
func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.Name, p.Arch)
}

// Bits returns the pointer width of the architecture as a string ("64" or
// "32"). Native classifiers use it through the ${arch} placeholder.
func (p Platform) Bits() string {
	switch p.Arch {
	case "x86", "arm":
		return "32"
	default:
		return "64"
	}
}

func ruleName(goos string) string {
	switch goos {
	case Linux:
		return RuleLinux
	case Darwin:
		return RuleOSX
	case Windows:
		return RuleWindows
	default:
		return RuleUnknown
	}
}

func ruleArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "aarch64"
	default:
		return goarch
	}
}

// NativesClassifier returns the classifier key of the native bundle built for
// the platform, or false when no bundle is published for its OS.
func (p Platform) NativesClassifier() (string, bool) {
	switch p.Name {
	case RuleLinux, RuleOSX, RuleWindows:
		return "natives-" + p.Name, true
	default:
		return "", false
	}
}
