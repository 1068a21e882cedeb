package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type vaultJSONConfig struct {
	App struct {
		SecurityLevel string `json:"security_level"`
		Version       string `json:"version"`
	} `json:"app,omitempty"`

	Auth struct {
		IdleTimeout       Duration `json:"idle_timeout"`
		MinPasswordLength int      `json:"min_password_length"`
	} `json:"auth,omitempty"`

	Storage struct {
		Backend string `json:"backend"`
		DataDir string `json:"data_dir"`
		DSN     string `json:"dsn"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*VaultConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg vaultJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &VaultConfig{
		App: App{
			SecurityLevel: jsonCfg.App.SecurityLevel,
			Version:       jsonCfg.App.Version,
		},
		Auth: Auth{
			IdleTimeout:       time.Duration(jsonCfg.Auth.IdleTimeout),
			MinPasswordLength: jsonCfg.Auth.MinPasswordLength,
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DataDir: jsonCfg.Storage.DataDir,
			DSN:     jsonCfg.Storage.DSN,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
