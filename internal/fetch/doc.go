// SPDX-License-Identifier: MPL-2.0

// Package fetch implements the hash-verified, cache-aware download layer that
// every other part of the installer sits on.
//
// Two primitives are provided:
//   - Client.FetchAndCache downloads a file to a local path unless a cached copy
//     already verifies against the expected hash.
//   - GetJSON decodes a JSON document, preferring a verified or still-fresh
//     cached copy and falling back to a stale copy when the network fails.
//
// Writes are atomic: content is written to a temporary file in the destination
// directory and renamed into place, so a partially written file is never
// observable at the destination path.
package fetch
