// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test doubles shared across packages. Helpers that
// need to import production packages live in subpackages such as remotetest,
// so that those packages can use testutil in their own tests.
package testutil
