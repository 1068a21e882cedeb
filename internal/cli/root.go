// Package cli wires the vault together behind a cobra command tree. Every
// command builds the full application (config, logger, storage, crypto,
// auth, library), runs one operation, and locks the session on exit.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/monad-vault/internal/config"
)

var (
	flagConfigPath    string
	flagDataDir       string
	flagBackend       string
	flagDSN           string
	flagSecurityLevel string
	flagIdleTimeout   time.Duration
	flagVerbose       bool
	flagLogFile       bool
)

var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "Local encrypted store for saved chats and journal entries",
	Long: `vault keeps saved messages, conversations and journal entries encrypted
at rest. All data stays on this machine; a master password (and an optional
journal passcode) is the only way in.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfigPath, "config", "c", "", "path to a JSON config file")
	pf.StringVar(&flagDataDir, "data-dir", "", "root directory for vault data (default: user config dir)")
	pf.StringVar(&flagBackend, "backend", "", "metadata backend: file, sqlite or memory")
	pf.StringVar(&flagDSN, "dsn", "", "sqlite data source name (sqlite backend only)")
	pf.StringVar(&flagSecurityLevel, "security-level", "", "lock aggressiveness: standard or secure")
	pf.DurationVar(&flagIdleTimeout, "idle-timeout", 0, "idle auto-lock window, e.g. 10m (overrides the security level)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log to stderr at debug level")
	pf.BoolVar(&flagLogFile, "log-file", false, "write debug logs to a file next to the executable")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(saveConvCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statusCmd)
}

// Execute runs the command tree. version is stamped in by the build.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

// flagConfig converts the parsed cobra flags into a config fragment for the
// builder. Environment variables outrank these values; the JSON file fills
// whatever is still unset.
func flagConfig() *config.VaultConfig {
	return &config.VaultConfig{
		App: config.App{
			SecurityLevel: flagSecurityLevel,
		},
		Auth: config.Auth{
			IdleTimeout: flagIdleTimeout,
		},
		Storage: config.Storage{
			Backend: flagBackend,
			DataDir: flagDataDir,
			DSN:     flagDSN,
		},
		JSONFilePath: flagConfigPath,
	}
}
