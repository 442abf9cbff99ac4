package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authdash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   auth API base URL
//	-l string   login path
//	-t int      request timeout in seconds
//	-s          static fallback
//	-a string   web listen address
//	-f string   cookie file
//	-v string   log level
//	-k string   cookie signing key
//	-secure     Secure cookies
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-l", "-t", "-s", "-a", "-f", "-v", "-k", "-secure"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIURL, "u", cfg.APIURL, "auth API base URL")
	fs.StringVar(&cfg.LoginPath, "l", cfg.LoginPath, "login path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.BoolVar(&cfg.StaticFallback, "s", cfg.StaticFallback, "fall back to a static session when the API is down")
	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run the web frontend")
	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "cookie storage file")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.CookieSecret, "k", cfg.CookieSecret, "cookie signing key")
	fs.BoolVar(&cfg.CookieSecure, "secure", cfg.CookieSecure, "mark cookies Secure")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
