// SPDX-License-Identifier: MPL-2.0

// Package config loads launcher configuration using Viper with CUE as the
// file format.
//
// The file lives at $XDG_CONFIG_HOME/mcl/config.cue on Linux,
// ~/Library/Application Support/mcl/config.cue on macOS and
// %APPDATA%\mcl\config.cue on Windows. Every key is optional; omitted keys
// take the values of DefaultConfig. Files are validated against the embedded
// #Config schema (config_schema.cue) before they are merged, and MCL_*
// environment variables override both, for example MCL_DATA_DIR or
// MCL_CONCURRENCY_ASSETS.
package config
