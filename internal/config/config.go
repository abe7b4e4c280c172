// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-anki-bridge application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//
// All environment variables carry the ANKI_BRIDGE_ prefix.
type StructuredConfig struct {
	// App holds application-level settings such as the API key, the
	// optional bearer-token sign key, and logging options.
	App App `envPrefix:"APP_"`

	// Collection holds the location of the local collection store.
	Collection Collection `envPrefix:"COLLECTION_"`

	// Server holds network address and timeout settings for the HTTP
	// server.
	Server Server `envPrefix:"SERVER_"`

	// Sync holds the remote sync credential, endpoint and the timer
	// cadences of the background synchronization scheduler.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the ANKI_BRIDGE_CONFIG environment variable or the
	// -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// APIKey is the static key clients must present in the request
	// payload's "key" field. Empty disables the check.
	// Env: ANKI_BRIDGE_APP_API_KEY
	APIKey string `env:"API_KEY"`

	// TokenSignKey is the HMAC secret for the optional Bearer-token
	// authentication mode. Empty disables bearer auth.
	// Env: ANKI_BRIDGE_APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// APIVersion is the protocol version reported in the greeting and
	// used as the default reply shape.
	// Env: ANKI_BRIDGE_APP_API_VERSION
	APIVersion int `env:"API_VERSION"`

	// LogLevel is the zerolog level name (debug, info, warn, error).
	// Env: ANKI_BRIDGE_APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// LogFile, when non-empty, duplicates log output into a rotating
	// file at this path.
	// Env: ANKI_BRIDGE_APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Collection holds the location of the collection store.
type Collection struct {
	// BaseDir is the directory that contains (or will contain) the
	// collection database file.
	// Env: ANKI_BRIDGE_COLLECTION_BASE_DIR
	BaseDir string `env:"BASE_DIR"`

	// Create makes startup create a fresh collection when none exists
	// at BaseDir instead of failing.
	// Env: ANKI_BRIDGE_COLLECTION_CREATE
	Create bool `env:"CREATE"`
}

// Server holds the HTTP server settings.
type Server struct {
	// HTTPAddress is the listen address in host:port form.
	// Env: ANKI_BRIDGE_SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds reading and writing one HTTP exchange.
	// Env: ANKI_BRIDGE_SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// CORSOrigins is the comma-separated list of allowed Origin values.
	// Env: ANKI_BRIDGE_SERVER_CORS_ORIGINS
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
}

// Sync holds the background synchronization settings.
type Sync struct {
	// HostKey is the credential token for the remote sync endpoint.
	// Sync is refused (never retried by the scheduler) while empty.
	// Env: ANKI_BRIDGE_SYNC_HOST_KEY
	HostKey string `env:"HOST_KEY"`

	// Endpoint is the base URL of the remote sync endpoint. The remote
	// may supersede it for the process lifetime via a sticky redirect.
	// Env: ANKI_BRIDGE_SYNC_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// DebounceDelay is how long after a detected modification the
	// debounce timer fires a background sync.
	// Env: ANKI_BRIDGE_SYNC_DEBOUNCE_DELAY
	DebounceDelay time.Duration `env:"DEBOUNCE_DELAY"`

	// PeriodicDelay is the self-renewing cadence of the unconditional
	// background sync.
	// Env: ANKI_BRIDGE_SYNC_PERIODIC_DELAY
	PeriodicDelay time.Duration `env:"PERIODIC_DELAY"`

	// IOTimeout bounds each network round trip to the sync endpoint.
	// Env: ANKI_BRIDGE_SYNC_IO_TIMEOUT
	IOTimeout time.Duration `env:"IO_TIMEOUT"`

	// Media requests media synchronization during negotiation.
	// Env: ANKI_BRIDGE_SYNC_MEDIA
	Media bool `env:"MEDIA"`
}

// Reference cadence: the periodic delay is 900x the debounce delay.
const (
	DefaultDebounceDelay  = 2 * time.Second
	DefaultPeriodicDelay  = 30 * time.Minute
	DefaultIOTimeout      = 30 * time.Second
	DefaultRequestTimeout = 60 * time.Second
	DefaultHTTPAddress    = "127.0.0.1:8765"
	DefaultAPIVersion     = 6
)

// defaults returns the configuration layer merged in last, filling any
// field no explicit source provided.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			APIVersion: DefaultAPIVersion,
			LogLevel:   "info",
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
			CORSOrigins:    []string{"http://localhost"},
		},
		Sync: Sync{
			DebounceDelay: DefaultDebounceDelay,
			PeriodicDelay: DefaultPeriodicDelay,
			IOTimeout:     DefaultIOTimeout,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the application
// configuration.
//
// Sources are merged in priority order: environment variables first, then
// command-line flags, then the optional JSON file, then built-in defaults.
// A field set by a higher-priority source is never overwritten by a
// lower-priority one.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
