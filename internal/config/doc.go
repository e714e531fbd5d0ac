// Package config loads, normalizes, and validates heiconv configuration.
//
// Configuration lives in a TOML file (default ~/.config/heiconv/config.toml,
// or heiconv.toml in the working directory). Every path field is expanded and
// made absolute during Load, so downstream code never deals with ~ or
// relative paths. Defaults come from defaults.go; the embedded
// sample_config.toml documents every key for "heiconv config init".
package config
