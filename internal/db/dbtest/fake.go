// Package dbtest provides an in-memory db.Pool for tests.
package dbtest

import (
	"context"
	"errors"
	"sync"
	"time"

	"neon-time/backend/internal/db"
)

// Pool answers every query with Now, or fails with AcquireErr / QueryErr.
// It counts acquisitions and releases so tests can check the pairing.
type Pool struct {
	Now        time.Time
	AcquireErr error
	QueryErr   error

	// Gate, when set, blocks QueryRow until it is closed.
	Gate chan struct{}

	mu       sync.Mutex
	acquired int
	released int
	queries  []string
	closed   bool
}

func (p *Pool) Acquire(ctx context.Context) (db.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.AcquireErr != nil {
		return nil, p.AcquireErr
	}
	p.acquired++
	return &conn{pool: p}, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.AcquireErr
}

func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Pool) Acquired() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.acquired
}

func (p *Pool) Released() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}

func (p *Pool) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

func (p *Pool) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

type conn struct {
	pool *Pool
}

func (c *conn) QueryRow(ctx context.Context, sql string, _ ...any) db.Row {
	if c.pool.Gate != nil {
		select {
		case <-c.pool.Gate:
		case <-ctx.Done():
			return row{err: ctx.Err()}
		}
	}
	c.pool.mu.Lock()
	defer c.pool.mu.Unlock()
	c.pool.queries = append(c.pool.queries, sql)
	return row{t: c.pool.Now, err: c.pool.QueryErr}
}

func (c *conn) Release() {
	c.pool.mu.Lock()
	c.pool.released++
	c.pool.mu.Unlock()
}

type row struct {
	t   time.Time
	err error
}

func (r row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("dbtest: expected one scan destination")
	}
	p, ok := dest[0].(*time.Time)
	if !ok {
		return errors.New("dbtest: scan destination is not *time.Time")
	}
	*p = r.t
	return nil
}
