// Package config loads and merges the go-anki-bridge configuration from
// environment variables (caarlos0/env), command-line flags, and an optional
// JSON file, in that priority order. Built-in defaults fill anything no
// source provided.
//
// The main entry point is [GetStructuredConfig]; merging is performed with
// mergo through an internal builder so each source stays independently
// testable.
package config
