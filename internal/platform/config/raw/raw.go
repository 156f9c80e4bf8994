// Package raw is the bootstrap env reader used by the logger.
// It has no dependency on the logger package, so bad values fall back silently
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf is a namespaced view over environment variables (e.g. "LOG_")
type Conf struct{ prefix string }

// New returns a root Conf (no prefix)
func New() Conf { return Conf{} }

// Prefix returns a child Conf with an additional prefix
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) lookup(k string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.prefix + k))
	return v, v != ""
}

// Get returns the trimmed env var or def if empty
func (c Conf) Get(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// GetBool accepts 1/true/yes/on (any case); any other non-empty value is false
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetInt parses a non-negative integer; anything else yields def
func (c Conf) GetInt(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
