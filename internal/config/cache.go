package config

import (
    "strings"
    "time"

    "github.com/kelseyhightower/envconfig"
    "github.com/pkg/errors"
)

// CacheConfig defines settings for the response cache middleware.
// When Enabled is false or no Redis client is configured, caching will be disabled.
// Methods lists the HTTP methods to cache (e.g. GET, HEAD).  TTL defines the
// lifetime of cache entries.  KeyStrategy determines which parts of the request
// contribute to the cache key.  Prefix and MaxBodyBytes allow control over
// namespacing and the maximum size of responses to cache.
type CacheConfig struct {
    Enabled      bool          `default:"true"`
    Methods      []string      `default:"GET"`
    TTL          time.Duration `default:"30s"`
    KeyStrategy  string        `split_words:"true" default:"route_query"`
    Prefix       string        `default:"cache"`
    MaxBodyBytes int           `split_words:"true" default:"1048576"`
}

// LoadCacheConfig reads CACHE_* variables.  Defaults are used when variables
// are not set.
func LoadCacheConfig() (CacheConfig, error) {
    var c CacheConfig
    if err := envconfig.Process("cache", &c); err != nil {
        return CacheConfig{}, errors.Wrap(err, "load cache config")
    }
    return c, nil
}

// MethodSet returns the cacheable methods upper-cased for lookups.
func (c CacheConfig) MethodSet() map[string]bool {
    m := make(map[string]bool, len(c.Methods))
    for _, p := range c.Methods {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
