package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenTTL)
	assert.Empty(t, c.DemoEmail)
	assert.Empty(t, c.DemoPassword)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *c)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"listen_addr":  ":7000",
		"secret_key":   "from-json",
		"database_dsn": "postgres://json",
	})
	t.Setenv(EnvSecretKey, "from-env")
	t.Setenv(EnvDatabaseDSN, "postgres://env")
	os.Args = []string{"testbin", "-c", path, "-d", "postgres://flag"}

	c := LoadConfig()

	assert.Equal(t, ":7000", c.ListenAddr)
	assert.Equal(t, "from-env", c.SecretKey)
	assert.Equal(t, "postgres://flag", c.DatabaseDSN)
}

func TestParseEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, ":9999")
	t.Setenv(EnvAccessTokenTTL, "2m")
	t.Setenv(EnvRefreshTokenTTL, "48h")
	t.Setenv(EnvDemoEmail, "demo@example.com")
	t.Setenv(EnvDemoPassword, "demo-pass")
	t.Setenv(EnvLogLevel, "debug")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.ListenAddr)
	assert.Equal(t, 2*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, "demo@example.com", c.DemoEmail)
	assert.Equal(t, "demo-pass", c.DemoPassword)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv(EnvAccessTokenTTL, "soon")

	var c Config
	require.Panics(t, func() { parseEnv(&c) })
}
