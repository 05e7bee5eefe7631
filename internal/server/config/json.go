package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/secureportal/internal/flagx"
	"github.com/dmitrijs2005/secureportal/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "1h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN      string         `json:"database_dsn"`
	AESKeyHex        string         `json:"aes_key_hex"`
	HMACSecretHex    string         `json:"hmac_secret_hex"`
	SessionLifetime  timex.Duration `json:"session_lifetime"`
	LoginMaxAttempts int            `json:"login_max_attempts"`
	LoginWindow      timex.Duration `json:"login_window"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics. The caller is expected to merge these
// values with defaults and command-line flags as part of the full
// configuration process.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.DatabaseDSN = c.DatabaseDSN
	config.AESKeyHex = c.AESKeyHex
	config.HMACSecretHex = c.HMACSecretHex
	config.SessionLifetime = time.Duration(c.SessionLifetime.Duration)
	config.LoginMaxAttempts = c.LoginMaxAttempts
	config.LoginWindow = time.Duration(c.LoginWindow.Duration)
}
