// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// A missing sync host key is deliberately NOT a validation error: the
// bridge serves local requests without one, and sync attempts fail fast
// with their own configuration error instead.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Collection.BaseDir == "" {
		return ErrInvalidCollectionConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.Sync.DebounceDelay <= 0 || cfg.Sync.PeriodicDelay <= 0 || cfg.Sync.IOTimeout <= 0 {
		return ErrInvalidSyncConfigs
	}

	return nil
}
