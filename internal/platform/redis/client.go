// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redis connects the key-value store behind sessions and one-time
// tokens. Both rely on key expiry, so nothing here is durable.
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Options configures the client. A zero PoolSize keeps the go-redis default.
type Options struct {
	URL      string
	PoolSize int
}

// NewClient parses the URL, applies options and pings the server once.
func NewClient(context stdctx.Context, options Options, logger *slog.Logger) (*redis.Client, error) {
	parsed, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("redis_parse_url_failed: %w", err)
	}
	if options.PoolSize > 0 {
		parsed.PoolSize = options.PoolSize
	}

	client := redis.NewClient(parsed)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected", slog.String("addr", parsed.Addr), slog.Int("db", parsed.DB))
	return client, nil
}

// Ping reports whether the server answers within a short deadline.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis_ping_failed: %w", err)
	}
	return nil
}
