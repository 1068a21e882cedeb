package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/MKhiriev/monad-vault/internal/auth"
	"github.com/MKhiriev/monad-vault/internal/config"
	"github.com/MKhiriev/monad-vault/internal/crypto"
	"github.com/MKhiriev/monad-vault/internal/logger"
	"github.com/MKhiriev/monad-vault/internal/store"
)

// App is the assembled vault: one instance per command invocation.
type App struct {
	Cfg      *config.VaultConfig
	Log      *logger.Logger
	Keychain crypto.KeyChainService
	Auth     *auth.Service
	Registry *store.Registry
	Index    *store.HashtagIndex
	Library  *store.Library

	closers []io.Closer
}

// newApp builds the application from config down to the library. The caller
// must Close it, which also locks the session and zeroizes keys.
func newApp() (*App, error) {
	cfg, err := config.GetVaultConfig(flagConfig())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.Nop()
	switch {
	case flagLogFile:
		log = logger.NewFileLogger("vault")
	case flagVerbose:
		log = logger.NewLogger("vault")
	}

	files := store.NewOSSecureFiles()
	if err = files.EnsureFolder(cfg.Storage.DataDir); err != nil {
		return nil, err
	}

	app := &App{Cfg: cfg, Log: log}

	var kv store.KVStore
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		sqlite, err := store.NewSQLiteKV(cfg.Storage.DSN, log)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, sqlite)
		kv = sqlite
	case config.BackendMemory:
		kv = store.NewMemoryKV()
	default:
		kv, err = store.NewFileKV(filepath.Join(cfg.Storage.DataDir, "meta"), files)
		if err != nil {
			return nil, err
		}
	}

	app.Keychain = crypto.NewKeyChainService()
	app.Auth = auth.NewService(kv, app.Keychain, log.GetChildLogger(), auth.Options{
		IdleTimeout:       cfg.EffectiveIdleTimeout(),
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	})
	app.Registry = store.NewRegistry(kv, log.GetChildLogger())
	app.Index = store.NewHashtagIndex(kv, log.GetChildLogger())
	app.Library = store.NewLibrary(app.Registry, app.Index, files, app.Auth, app.Keychain, log.GetChildLogger())

	return app, nil
}

// ChatDir returns the storage folder for a new chat.
func (a *App) ChatDir(chatID string) string {
	return filepath.Join(a.Cfg.Storage.DataDir, "chats", chatID)
}

// Close locks the session and releases storage handles.
func (a *App) Close() {
	a.Auth.Lock()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("close storage")
		}
	}
}
