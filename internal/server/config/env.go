package config

import "github.com/dmitrijs2005/authdash/internal/envx"

const (
	EnvListenAddr      = "AUTHDASH_SERVER_ADDR"
	EnvDatabaseDSN     = "AUTHDASH_DATABASE_DSN"
	EnvSecretKey       = "AUTHDASH_SECRET_KEY"
	EnvAccessTokenTTL  = "AUTHDASH_ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL = "AUTHDASH_REFRESH_TOKEN_TTL"
	EnvDemoEmail       = "AUTHDASH_DEMO_EMAIL"
	EnvDemoPassword    = "AUTHDASH_DEMO_PASSWORD"
	EnvLogLevel        = "AUTHDASH_LOG_LEVEL"
)

// parseEnv overlays Config with the server's AUTHDASH_* variables.
// Panics on unparsable durations.
func parseEnv(cfg *Config) {
	envx.String(EnvListenAddr, &cfg.ListenAddr)
	envx.String(EnvDatabaseDSN, &cfg.DatabaseDSN)
	envx.String(EnvSecretKey, &cfg.SecretKey)
	envx.String(EnvDemoEmail, &cfg.DemoEmail)
	envx.String(EnvDemoPassword, &cfg.DemoPassword)
	envx.String(EnvLogLevel, &cfg.LogLevel)

	if err := envx.Duration(EnvAccessTokenTTL, &cfg.AccessTokenTTL); err != nil {
		panic(err)
	}
	if err := envx.Duration(EnvRefreshTokenTTL, &cfg.RefreshTokenTTL); err != nil {
		panic(err)
	}
}
