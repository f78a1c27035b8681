// SPDX-License-Identifier: MPL-2.0

// Package remotetest provides a fake distribution server publishing a version
// manifest, version documents, jars, native bundles, asset indexes and asset
// objects, all with correct SHA-1 digests.
//
// This package is separate from testutil to avoid import cycles, since
// testutil is used by internal/fetch tests which cannot transitively import
// internal/fetch.
//
// # Usage
//
//	srv := remotetest.NewServer(t)
//	srv.AddVersion("1.20.1", manifest.TypeRelease,
//	    remotetest.WithLibrary("com.mojang:logging:1.1.1", "com/mojang/logging.jar", nil),
//	    remotetest.WithAssets(map[string]string{"icons/icon.png": "png"}),
//	)
//	env := component.NewEnv(fetch.NewClient(), layout.New(t.TempDir()),
//	    component.WithEndpoints(srv.Endpoints()))
package remotetest
