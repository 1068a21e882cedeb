// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Security levels selectable by the user. The level controls how aggressive
// the idle auto-lock is.
const (
	SecurityLevelStandard = "standard"
	SecurityLevelSecure   = "secure"
)

// Storage backends for the key-value substrate.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Idle timeouts applied per security level when no explicit timeout is
// configured.
const (
	standardIdleTimeout = 15 * time.Minute
	secureIdleTimeout   = 5 * time.Minute
)

// VaultConfig is the top-level configuration container for the vault. It is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type VaultConfig struct {
	// App holds application-level settings such as the security level and
	// the application version.
	App App `envPrefix:"APP_"`

	// Auth holds the lock policy: idle timeout and password requirements.
	Auth Auth `envPrefix:"AUTH_"`

	// Storage holds the persistence settings: which key-value backend to
	// use and where the encrypted data lives.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after environment
	// variables and flags.
	// Populated via the CONFIG environment variable or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// SecurityLevel selects the lock aggressiveness: "standard" (15 minute
	// idle lock) or "secure" (5 minute idle lock).
	// Env: APP_SECURITY_LEVEL
	SecurityLevel string `env:"SECURITY_LEVEL"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Auth holds the lock-policy configuration.
type Auth struct {
	// IdleTimeout overrides the security level's idle auto-lock window
	// (e.g. "10m", "1h"). Zero means "use the level's default".
	// Env: AUTH_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`

	// MinPasswordLength is the minimum master password length accepted
	// during setup.
	// Env: AUTH_MIN_PASSWORD_LENGTH
	MinPasswordLength int `env:"MIN_PASSWORD_LENGTH"`
}

// Storage holds persistence settings.
type Storage struct {
	// Backend selects the key-value substrate: "file", "sqlite" or
	// "memory". The encrypted chat records always live on the file system;
	// the backend only carries the small metadata entries (auth record,
	// chat registry, hashtag index).
	// Env: STORAGE_BACKEND
	Backend string `env:"BACKEND"`

	// DataDir is the root directory for all vault data: chat folders, the
	// file-backed KV entries, and the default SQLite database.
	// Env: STORAGE_DATA_DIR
	DataDir string `env:"DATA_DIR"`

	// DSN is the SQLite data source name. Only consulted when Backend is
	// "sqlite"; when empty it defaults to <DataDir>/vault.db.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// EffectiveIdleTimeout resolves the idle auto-lock window: an explicit
// Auth.IdleTimeout wins, otherwise the security level decides.
func (cfg *VaultConfig) EffectiveIdleTimeout() time.Duration {
	if cfg.Auth.IdleTimeout > 0 {
		return cfg.Auth.IdleTimeout
	}
	if cfg.App.SecurityLevel == SecurityLevelSecure {
		return secureIdleTimeout
	}
	return standardIdleTimeout
}

// GetVaultConfig loads, merges, and validates the vault configuration from
// all available sources in the following priority order (earlier sources win
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags, passed in as flagCfg (may be nil)
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *VaultConfig or an error if any source fails to
// load or the final config fails validation.
func GetVaultConfig(flagCfg *VaultConfig) (*VaultConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flagCfg).
		withJSON().
		build()
}
