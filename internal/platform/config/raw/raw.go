// Package raw reads environment variables without logging
// the logger configures itself through it, so it must not import the logger
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Env reads variables under a fixed prefix
type Env string

// String returns the trimmed value or def
func (e Env) String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(string(e) + key)); v != "" {
		return v
	}
	return def
}

// Bool returns def unless the value parses as a bool
func (e Env) Bool(key string, def bool) bool {
	b, err := strconv.ParseBool(e.String(key, ""))
	if err != nil {
		return def
	}
	return b
}

// Count returns def unless the value is a non negative integer
func (e Env) Count(key string, def int) int {
	n, err := strconv.Atoi(e.String(key, ""))
	if err != nil || n < 0 {
		return def
	}
	return n
}
