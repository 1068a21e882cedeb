// Package config provides configuration loading, merging, and validation
// facilities for the vault.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources fill only fields still at their zero value):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetVaultConfig].
package config
