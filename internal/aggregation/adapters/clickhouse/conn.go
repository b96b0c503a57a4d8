package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type Config struct {
	Addr     string
	Database string
	Username string
	Password string
	Timeout  time.Duration
}

// Open dials ClickHouse and pings it.
func Open(ctx context.Context, cfg Config) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		DialTimeout: cfg.Timeout,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	return conn, nil
}

type chRows struct {
	rows driver.Rows
}

func (r *chRows) Next() bool             { return r.rows.Next() }
func (r *chRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *chRows) Close() error           { return r.rows.Close() }
func (r *chRows) Err() error             { return r.rows.Err() }

type chConn struct {
	conn driver.Conn
}

// NewConn adapts a driver.Conn to the DB interface used by EventRepository.
func NewConn(conn driver.Conn) DB {
	return &chConn{conn: conn}
}

func (c *chConn) Query(ctx context.Context, query string, args ...any) (RowScanner, error) {
	rows, err := c.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &chRows{rows: rows}, nil
}
