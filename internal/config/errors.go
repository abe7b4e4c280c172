package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidCollectionConfigs indicates invalid collection settings
	// (for example, missing base directory).
	ErrInvalidCollectionConfigs = errors.New("invalid collection configuration")
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, missing listen address).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSyncConfigs indicates invalid sync scheduler settings
	// (for example, non-positive timer delays).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)
