package config

// This file defines a Redis client constructor for the application.  Redis is
// used for distributed rate limiting and HTTP response caching of the menu and
// table listings.  If connection fails during startup, the function returns
// nil and callers degrade gracefully by disabling caching and rate limiting.

import (
    "context"
    "crypto/tls"
    "time"

    "github.com/kelseyhightower/envconfig"
    "github.com/pkg/errors"
    "github.com/redis/go-redis/v9"
)

// RedisConfig is read from REDIS_* variables.  When Host and Port are both
// set they take precedence over Addr.
type RedisConfig struct {
    Host     string
    Port     string
    Addr     string `default:"localhost:6379"`
    Password string
    DB       int  `default:"0"`
    TLS      bool `default:"false"`
}

func LoadRedisConfig() (RedisConfig, error) {
    var c RedisConfig
    if err := envconfig.Process("redis", &c); err != nil {
        return RedisConfig{}, errors.Wrap(err, "load redis config")
    }
    if c.Host != "" && c.Port != "" {
        c.Addr = c.Host + ":" + c.Port
    }
    return c, nil
}

// NewRedisClient instantiates a Redis client and pings it with a short
// timeout.  The returned client is nil if the server cannot be reached.
func NewRedisClient(cfg RedisConfig) *redis.Client {
    var tlsConf *tls.Config
    if cfg.TLS {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      cfg.Addr,
        Password:  cfg.Password,
        DB:        cfg.DB,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
