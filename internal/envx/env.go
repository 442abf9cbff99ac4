// Package envx overlays config fields from environment variables.
// Each helper leaves the destination untouched when the variable is unset
// or empty, so it can sit between the JSON and flag layers.
package envx

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// String copies $key into dst.
func String(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// Bool parses $key with strconv.ParseBool.
func Bool(key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", key, err)
	}
	*dst = b
	return nil
}

// Duration parses $key with time.ParseDuration.
func Duration(key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("env %s: %w", key, err)
	}
	*dst = d
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
