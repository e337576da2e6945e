package config

import (
    "time"

    "github.com/kelseyhightower/envconfig"
    "github.com/pkg/errors"
)

// RateLimitConfig configures the Redis token bucket (RATE_LIMIT_* variables).
type RateLimitConfig struct {
    Enabled        bool          `default:"true"`
    Capacity       int           `default:"60"`
    RefillTokens   int           `split_words:"true" default:"1"`
    RefillInterval time.Duration `split_words:"true" default:"1s"`
    TTL            time.Duration `default:"10m"`
    KeyStrategy    string        `split_words:"true" default:"ip_user_route"`
    Prefix         string        `default:"rl"`
    Debug          bool          `default:"false"`
}

func LoadRateLimitConfig() (RateLimitConfig, error) {
    var c RateLimitConfig
    if err := envconfig.Process("rate_limit", &c); err != nil {
        return RateLimitConfig{}, errors.Wrap(err, "load rate limit config")
    }
    return c.normalize(), nil
}

// normalize clamps values the limiter script cannot work with.  The TTL must
// outlive a few refill intervals or buckets would reset while still draining.
func (c RateLimitConfig) normalize() RateLimitConfig {
    if c.Capacity < 1 { c.Capacity = 1 }
    if c.RefillTokens < 1 { c.RefillTokens = 1 }
    if c.RefillInterval <= 0 { c.RefillInterval = time.Second }
    if minTTL := 5 * c.RefillInterval; c.TTL < minTTL { c.TTL = minTTL }
    return c
}
