// SPDX-License-Identifier: MPL-2.0

// Package instance manages named, persisted game configurations.
//
// An instance lives in <data>/instances/<id>/ and is described by meta.json:
//
//	{"id": "survival", "components": [{"id": "minecraft-client", "version": "latest"}]}
//
// Its lifecycle is New (directory and metadata persisted), Install (a fresh
// component.State derived from every component), and Launch (the State
// rendered into JVM arguments followed by game arguments).
package instance
