// Package config loads runtime configuration for the authdash web frontend
// and terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or
//     $AUTHDASH_CONFIG.
//  3. Environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the auth API
//	-l string   login path ("/auth/login" or "/login")
//	-t int      API request timeout (seconds)
//	-s          enable the static fallback session
//	-a string   listen address of the web frontend
//	-f string   SQLite cookie file of the terminal client
//	-v string   log level
//	-secure     mark cookies Secure
//
// Environment
//
//	AUTHDASH_API_URL, AUTHDASH_LOGIN_PATH, AUTHDASH_REQUEST_TIMEOUT (e.g. "10s"),
//	AUTHDASH_STATIC_FALLBACK, AUTHDASH_LISTEN_ADDR, AUTHDASH_COOKIE_SECURE,
//	AUTHDASH_STORE_PATH, AUTHDASH_LOG_LEVEL
//
// # JSON schema
//
// The JSON loader uses timex.Duration, so the timeout can be either a string
// like "10s" or integer nanoseconds. Absent keys keep their previous value:
//
//	{
//	  "api_url": "https://api.example.com",
//	  "login_path": "/auth/login",
//	  "request_timeout": "10s",
//	  "static_fallback": true,
//	  "listen_addr": ":3000",
//	  "cookie_secure": false,
//	  "store_path": "authdash_cookies.db",
//	  "log_level": "info"
//	}
//
// Malformed input in any layer panics, as configuration is loaded once at
// startup.
package config
