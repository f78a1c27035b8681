// SPDX-License-Identifier: MPL-2.0

// Package manifest models the remote version manifest, per-version documents
// and asset indexes, and resolves a version selector to a manifest entry.
//
// Documents are fetched through internal/fetch: the manifest with a freshness
// window and no hash, version documents and asset indexes by the SHA-1 their
// parent document publishes.
package manifest
