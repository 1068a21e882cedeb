package config

import "errors"

// Validation errors returned by [VaultConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown security level).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidAuthConfigs indicates invalid lock-policy settings
	// (for example, a negative idle timeout).
	ErrInvalidAuthConfigs = errors.New("invalid auth configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown backend or a missing data directory).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
