// SPDX-License-Identifier: MPL-2.0

// Package platform describes the host the launcher runs on in the vocabulary
// used by version documents.
//
// Version documents name operating systems "linux", "osx" and "windows" and
// architectures "x86_64", "x86", "aarch64" and "arm". Platform translates
// runtime.GOOS/runtime.GOARCH into those names so rule evaluation and native
// classifier selection can compare strings directly.
//
// The package also carries filename helpers (Windows reserved names) used when
// validating instance identifiers.
package platform
