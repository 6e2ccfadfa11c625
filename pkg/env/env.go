// Package env reads individual process environment overrides that live
// outside the envconfig-managed configuration, such as platform-injected
// values like PORT or LOG_FORMAT.
package env

import (
	"os"
	"strings"
)

// Get returns the named variable with surrounding whitespace stripped, or
// fallback when the variable is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if trimmed := strings.TrimSpace(val); trimmed != "" {
		return trimmed
	}
	return fallback
}
