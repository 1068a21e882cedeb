// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultMinPasswordLength is the setup-time password policy floor.
const defaultMinPasswordLength = 12

// applyDefaults fills the fields no source provided, after merging.
func (cfg *VaultConfig) applyDefaults() {
	if cfg.App.SecurityLevel == "" {
		cfg.App.SecurityLevel = SecurityLevelStandard
	}
	if cfg.Auth.MinPasswordLength == 0 {
		cfg.Auth.MinPasswordLength = defaultMinPasswordLength
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = BackendFile
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir()
	}
	if cfg.Storage.Backend == BackendSQLite && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = filepath.Join(cfg.Storage.DataDir, "vault.db")
	}
}

// defaultDataDir is the per-user vault directory used when no source names
// one, so a flagless run works out of the box. Falls back to a temp-dir
// location when the user config dir cannot be resolved.
func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "monad-vault")
	}
	return filepath.Join(base, "monad-vault")
}

// validate checks that the final merged [VaultConfig] satisfies all
// invariants before it is used at startup.
func (cfg *VaultConfig) validate() error {
	switch cfg.App.SecurityLevel {
	case SecurityLevelStandard, SecurityLevelSecure:
	default:
		return fmt.Errorf("%w: unknown security level %q", ErrInvalidAppConfigs, cfg.App.SecurityLevel)
	}

	if cfg.Auth.IdleTimeout < 0 {
		return fmt.Errorf("%w: negative idle timeout", ErrInvalidAuthConfigs)
	}
	if cfg.Auth.MinPasswordLength < 8 {
		return fmt.Errorf("%w: minimum password length below 8", ErrInvalidAuthConfigs)
	}

	// DataDir (and the sqlite DSN derived from it) is guaranteed non-empty
	// by applyDefaults, so only the backend name itself needs checking.
	switch cfg.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidStorageConfigs, cfg.Storage.Backend)
	}

	return nil
}
