package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authdash/internal/flagx"
	"github.com/dmitrijs2005/authdash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from the zero value.
type JsonConfig struct {
	APIURL         string          `json:"api_url"`
	LoginPath      string          `json:"login_path"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StaticFallback *bool           `json:"static_fallback"`
	ListenAddr     string          `json:"listen_addr"`
	CookieSecure   *bool           `json:"cookie_secure"`
	CookieSecret   string          `json:"cookie_secret"`
	StorePath      string          `json:"store_path"`
	LogLevel       string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c/-config or $AUTHDASH_CONFIG
// (flagx.JsonConfigFlags). When both are empty nothing is loaded.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIURL, jc.APIURL)
	setString(&cfg.LoginPath, jc.LoginPath)
	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.CookieSecret, jc.CookieSecret)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StaticFallback != nil {
		cfg.StaticFallback = *jc.StaticFallback
	}
	if jc.CookieSecure != nil {
		cfg.CookieSecure = *jc.CookieSecure
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
