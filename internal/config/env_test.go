// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_SECURITY_LEVEL": "secure",
		"APP_VERSION":        "1.2.3",

		"AUTH_IDLE_TIMEOUT":        "10m",
		"AUTH_MIN_PASSWORD_LENGTH": "16",

		"STORAGE_BACKEND":  "sqlite",
		"STORAGE_DATA_DIR": "/var/vault",
		"STORAGE_DSN":      "/var/vault/vault.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &VaultConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "secure", cfg.App.SecurityLevel)
	assert.Equal(t, "1.2.3", cfg.App.Version)

	assert.Equal(t, 10*time.Minute, cfg.Auth.IdleTimeout)
	assert.Equal(t, 16, cfg.Auth.MinPasswordLength)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/var/vault", cfg.Storage.DataDir)
	assert.Equal(t, "/var/vault/vault.db", cfg.Storage.DSN)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"APP_SECURITY_LEVEL": "standard",
		"STORAGE_DATA_DIR":   "/var/vault",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &VaultConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "standard", cfg.App.SecurityLevel)
	assert.Empty(t, cfg.App.Version)

	assert.Zero(t, cfg.Auth.IdleTimeout)
	assert.Zero(t, cfg.Auth.MinPasswordLength)

	assert.Empty(t, cfg.Storage.Backend)
	assert.Equal(t, "/var/vault", cfg.Storage.DataDir)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &VaultConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "", cfg.JSONFilePath)
	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, Auth{}, cfg.Auth)
	assert.Equal(t, Storage{}, cfg.Storage)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"AUTH_IDLE_TIMEOUT": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &VaultConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"hours", "2h", 2 * time.Hour},
		{"minutes", "45m", 45 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"combined", "1h30m", 90 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"AUTH_IDLE_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &VaultConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Auth.IdleTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_SECURITY_LEVEL",
		"APP_VERSION",

		"AUTH_IDLE_TIMEOUT",
		"AUTH_MIN_PASSWORD_LENGTH",

		"STORAGE_BACKEND",
		"STORAGE_DATA_DIR",
		"STORAGE_DSN",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
