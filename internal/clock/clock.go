// Package clock asks the database what time it is.
package clock

import (
	"context"
	"errors"
	"time"

	"neon-time/backend/internal/db"
)

// Query is the only statement this package runs.
const Query = "SELECT NOW()"

// Layout is how timestamps leave the service: UTC, millisecond precision.
const Layout = "2006-01-02T15:04:05.000Z"

var (
	ErrConnection = errors.New("connection error")
	ErrQuery      = errors.New("query failed")
)

// Error carries a failure kind (ErrConnection or ErrQuery) alongside the driver
// error. Its message is the driver message unchanged.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string   { return e.Err.Error() }
func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

type Service struct {
	pool db.Pool
}

func New(pool db.Pool) *Service {
	return &Service{pool: pool}
}

// Now acquires a connection, runs Query on it and releases it again,
// returning the database time formatted with Layout.
func (s *Service) Now(ctx context.Context) (string, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return "", &Error{Kind: ErrConnection, Err: err}
	}
	defer conn.Release()

	var now time.Time
	if err := conn.QueryRow(ctx, Query).Scan(&now); err != nil {
		return "", &Error{Kind: ErrQuery, Err: err}
	}
	return Format(now), nil
}

func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}
