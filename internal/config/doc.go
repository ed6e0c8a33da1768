// SPDX-License-Identifier: MPL-2.0

// Package config loads the project configuration using Viper with CUE as the
// file format.
//
// The configuration is looked up in this order: the --config flag, the
// project file jpmsdeps.cue in the build root, then the user file
// config.cue in the jpmsdeps configuration directory ($XDG_CONFIG_HOME on
// Linux, ~/Library/Application Support on macOS, %APPDATA% on Windows).
// When none exists the defaults apply. Every file is validated against the
// embedded schema (config_schema.cue) before it reaches Viper; scalar
// settings can be overridden with JPMSDEPS_* environment variables.
package config
