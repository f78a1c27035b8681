// SPDX-License-Identifier: MPL-2.0

// Package component defines the installable units an instance is composed of
// and the install pipeline that turns them into a launch State.
//
// The set of kinds is closed. Each kind is one Go type implementing Component
// and one entry in the kind registry, which maps the persisted "id"
// discriminator to a decoder. FabricLoader exists as a type but is not
// registered, so it can neither be decoded nor created by kind.
//
// Components never mutate themselves during Install; they only append to the
// State they are given. Concurrent fetch phases are bounded worker pools whose
// per-task failures are collected as TaskResults, reported to the Env's
// Observer, and do not fail the install.
package component
