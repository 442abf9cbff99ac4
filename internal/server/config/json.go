package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authdash/internal/flagx"
	"github.com/dmitrijs2005/authdash/internal/timex"
)

// JsonConfig is the JSON form of Config. Durations accept "15m" as well
// as integer nanoseconds.
type JsonConfig struct {
	ListenAddr      string          `json:"listen_addr"`
	DatabaseDSN     string          `json:"database_dsn"`
	SecretKey       string          `json:"secret_key"`
	AccessTokenTTL  *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL *timex.Duration `json:"refresh_token_ttl"`
	DemoEmail       string          `json:"demo_email"`
	DemoPassword    string          `json:"demo_password"`
	LogLevel        string          `json:"log_level"`
}

// parseJson overlays Config with the file named by -c/-config or
// $AUTHDASH_CONFIG. Keys absent from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	setString(&config.ListenAddr, c.ListenAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.DemoEmail, c.DemoEmail)
	setString(&config.DemoPassword, c.DemoPassword)
	setString(&config.LogLevel, c.LogLevel)
	if c.AccessTokenTTL != nil {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL != nil {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
