// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the mcl command line.
//
// Run without a subcommand, mcl discovers every instance, installs it, and
// prints "java <args>" for each one. Subcommands manage instances (create,
// rename, add components), install a single instance, print its launch
// command, and manage the CUE configuration file.
package cmd
