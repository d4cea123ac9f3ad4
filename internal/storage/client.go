package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/algopatterns/catalog/internal/config"
	"codeberg.org/algopatterns/catalog/internal/evidence"
)

const defaultTable = "evidence_rows"

type Client struct {
	pool    *pgxpool.Pool
	metric  evidence.Metric
	queries queries
}

type Options struct {
	Metric evidence.Metric
	Table  string // defaults to evidence_rows
}

// opens a pool tuned for a transaction-mode pooler and verifies connectivity
func NewClient(ctx context.Context, cfg config.DatabaseConfig, opts Options) (*Client, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// hosted poolers hand out few connections, so keep our pool small
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// pgBouncer in transaction mode doesn't support prepared statements,
	// which causes connections to hang on subsequent queries
	if cfg.SimpleProtocol {
		poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewClientWithPool(pool, opts)
}

// wraps an existing pool
func NewClientWithPool(pool *pgxpool.Pool, opts Options) (*Client, error) {
	if opts.Metric == "" {
		opts.Metric = evidence.MetricCosine
	}

	if opts.Table == "" {
		opts.Table = defaultTable
	}

	q, err := buildQueries(opts.Table, opts.Metric)
	if err != nil {
		return nil, err
	}

	return &Client{pool: pool, metric: opts.Metric, queries: q}, nil
}

func (c *Client) Metric() evidence.Metric {
	return c.metric
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Close() {
	c.pool.Close()
}
