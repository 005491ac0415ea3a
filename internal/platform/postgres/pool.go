// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the Quillpost connection pool and holds the query
// helpers shared by the repositories.
package postgres

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/quillpost/internal/platform/constants"
)

const pingTimeout = 2 * time.Second

// Options configures the pool. Zero values keep the pgxpool defaults.
type Options struct {
	URL string

	// MaxConns caps open connections across all repositories.
	MaxConns int32

	// StatementTimeout is sent as a runtime parameter on every connection.
	StatementTimeout time.Duration
}

// Config turns options into a pool configuration without connecting.
func Config(options Options) (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(options.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres_parse_url_failed: %w", err)
	}

	if options.MaxConns > 0 {
		config.MaxConns = options.MaxConns
	}

	params := config.ConnConfig.RuntimeParams
	params["application_name"] = constants.AppName
	if options.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(options.StatementTimeout.Milliseconds(), 10)
	}

	return config, nil
}

// Open connects the pool and fails fast when the database is unreachable.
func Open(context stdctx.Context, options Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := Config(options)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context, config)
	if err != nil {
		return nil, fmt.Errorf("postgres_pool_create_failed: %w", err)
	}

	if err := Ping(context, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_connected",
		slog.String("host", config.ConnConfig.Host),
		slog.String("database", config.ConnConfig.Database),
		slog.Int("max_conns", int(config.MaxConns)),
	)
	return pool, nil
}

// Ping reports whether the database answers within a short deadline.
func Ping(context stdctx.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres_ping_failed: %w", err)
	}
	return nil
}
