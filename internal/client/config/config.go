package config

import (
	"time"

	"github.com/dmitrijs2005/authdash/internal/common"
)

// Config holds runtime settings shared by the web frontend and the terminal
// client.
//
// Fields:
//   - APIURL: base URL of the auth API.
//   - LoginPath: login endpoint, "/auth/login" or "/login".
//   - RequestTimeout: per-request timeout of the API client.
//   - StaticFallback: fabricate a demo session when the API is unreachable.
//   - ListenAddr: bind address of the web frontend.
//   - CookieSecure: mark session cookies Secure (HTTPS deployments).
//   - CookieSecret: HMAC key signing session cookies; random per process
//     when empty.
//   - StorePath: SQLite cookie file of the terminal client.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIURL         string
	LoginPath      string
	RequestTimeout time.Duration
	StaticFallback bool
	ListenAddr     string
	CookieSecure   bool
	CookieSecret   string
	StorePath      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://localhost:8080"
	c.LoginPath = common.PathLogin
	c.RequestTimeout = 10 * time.Second
	c.StaticFallback = false
	c.ListenAddr = ":3000"
	c.CookieSecure = false
	c.CookieSecret = ""
	c.StorePath = "authdash_cookies.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
