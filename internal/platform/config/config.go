// Package config reads typed settings from prefixed environment variables
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"diffjar/internal/platform/logger"
)

// Conf reads variables under a prefix, Prefix("DIFF_").Prefix("PG_") reads DIFF_PG_*
type Conf struct{ prefix string }

// New returns an unprefixed Conf
func New() Conf { return Conf{} }

// Prefix returns a Conf scoped one level deeper
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Name returns the full variable name for key
func (c Conf) Name(key string) string { return c.prefix + key }

func (c Conf) lookup(key string) string {
	return strings.TrimSpace(os.Getenv(c.Name(key)))
}

// parsed returns def for an unset key and for a value parse rejects, the latter with a warning
func parsed[T any](c Conf, key string, def T, kind string, parse func(string) (T, error)) T {
	s := c.lookup(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().
			Str("key", c.Name(key)).
			Str("value", s).
			Interface("default", def).
			Msgf("invalid %s, using default", kind)
		return def
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	if s := c.lookup(key); s != "" {
		return s
	}
	return def
}

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int {
	return parsed(c, key, def, "int", strconv.Atoi)
}

// MayBool accepts what strconv.ParseBool accepts plus yes and no
func (c Conf) MayBool(key string, def bool) bool {
	return parsed(c, key, def, "bool", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "yes", "on":
			return true, nil
		case "no", "off":
			return false, nil
		}
		return strconv.ParseBool(s)
	})
}

// MayDuration returns the value or def, values use time.ParseDuration syntax
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return parsed(c, key, def, "duration", time.ParseDuration)
}

// MayCSV splits a comma list and drops blanks, an all blank list gives def
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.lookup(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it is one of allowed, case folded, and panics otherwise
// a misspelt driver or mode must stop startup rather than fall back silently
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().
		Str("key", c.Name(key)).
		Str("value", v).
		Strs("allowed", allowed).
		Msg("value not in allowed set")
	return ""
}
