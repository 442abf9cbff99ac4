package config

import "github.com/dmitrijs2005/authdash/internal/envx"

const (
	EnvAPIURL         = "AUTHDASH_API_URL"
	EnvLoginPath      = "AUTHDASH_LOGIN_PATH"
	EnvRequestTimeout = "AUTHDASH_REQUEST_TIMEOUT"
	EnvStaticFallback = "AUTHDASH_STATIC_FALLBACK"
	EnvListenAddr     = "AUTHDASH_LISTEN_ADDR"
	EnvCookieSecure   = "AUTHDASH_COOKIE_SECURE"
	EnvCookieSecret   = "AUTHDASH_COOKIE_SECRET"
	EnvStorePath      = "AUTHDASH_STORE_PATH"
	EnvLogLevel       = "AUTHDASH_LOG_LEVEL"
)

// parseEnv overlays Config with AUTHDASH_* variables. Unset or empty
// variables are skipped. Panics on unparsable values.
func parseEnv(cfg *Config) {
	envx.String(EnvAPIURL, &cfg.APIURL)
	envx.String(EnvLoginPath, &cfg.LoginPath)
	envx.String(EnvListenAddr, &cfg.ListenAddr)
	envx.String(EnvCookieSecret, &cfg.CookieSecret)
	envx.String(EnvStorePath, &cfg.StorePath)
	envx.String(EnvLogLevel, &cfg.LogLevel)

	if err := envx.Duration(EnvRequestTimeout, &cfg.RequestTimeout); err != nil {
		panic(err)
	}
	if err := envx.Bool(EnvStaticFallback, &cfg.StaticFallback); err != nil {
		panic(err)
	}
	if err := envx.Bool(EnvCookieSecure, &cfg.CookieSecure); err != nil {
		panic(err)
	}
}
