package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

// Row is a single result row waiting to be scanned.
type Row interface {
	Scan(dest ...any) error
}

// Conn is a connection checked out of a Pool. Release hands it back.
type Conn interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
	Release()
}

// Pool is the driver-neutral view of a connection pool.
type Pool interface {
	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close()
}

// Open builds a pool for driver ("pgx" or "pq"). Neither driver dials until
// the first connection is needed, so an unreachable server is not an error here.
func Open(ctx context.Context, driver, url string) (Pool, error) {
	switch driver {
	case "", "pgx":
		cfg, err := pgxpool.ParseConfig(url)
		if err != nil {
			return nil, fmt.Errorf("parse database url: %w", err)
		}
		p, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		return NewPgx(p), nil
	case "pq":
		sqlDB, err := sql.Open("postgres", url)
		if err != nil {
			return nil, fmt.Errorf("open pq pool: %w", err)
		}
		return NewSQL(sqlDB), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// MustConnect is Open for startup code: an invalid url or driver panics.
func MustConnect(driver, url string) Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := Open(ctx, driver, url)
	if err != nil {
		panic(err)
	}
	return pool
}

// pgx

type pgxPool struct {
	p *pgxpool.Pool
}

// NewPgx wraps an existing pgxpool.Pool.
func NewPgx(p *pgxpool.Pool) Pool { return &pgxPool{p: p} }

func (p *pgxPool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return pgxConn{c: c}, nil
}

func (p *pgxPool) Ping(ctx context.Context) error { return p.p.Ping(ctx) }
func (p *pgxPool) Close()                         { p.p.Close() }

type pgxConn struct {
	c *pgxpool.Conn
}

func (c pgxConn) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return c.c.QueryRow(ctx, sql, args...)
}

func (c pgxConn) Release() { c.c.Release() }

// database/sql (lib/pq)

type sqlPool struct {
	db *sql.DB
}

// NewSQL wraps a database/sql handle. Acquire pins one *sql.Conn per call.
func NewSQL(db *sql.DB) Pool { return &sqlPool{db: db} }

func (p *sqlPool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return sqlConn{c: c}, nil
}

func (p *sqlPool) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
func (p *sqlPool) Close()                         { _ = p.db.Close() }

type sqlConn struct {
	c *sql.Conn
}

func (c sqlConn) QueryRow(ctx context.Context, query string, args ...any) Row {
	return c.c.QueryRowContext(ctx, query, args...)
}

func (c sqlConn) Release() { _ = c.c.Close() }
