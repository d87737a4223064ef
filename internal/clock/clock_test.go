package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neon-time/backend/internal/db/dbtest"
)

func TestNow(t *testing.T) {
	sp := time.FixedZone("BRT", -3*60*60)
	pool := &dbtest.Pool{Now: time.Date(2024, 5, 17, 9, 30, 15, 123456789, sp)}

	got, err := New(pool).Now(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-17T12:30:15.123Z", got)
	assert.Equal(t, []string{"SELECT NOW()"}, pool.Queries())
	assert.Equal(t, 1, pool.Acquired())
	assert.Equal(t, 1, pool.Released())
}

func TestNowConnectionError(t *testing.T) {
	pool := &dbtest.Pool{AcquireErr: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")}

	_, err := New(pool).Now(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)
	assert.NotErrorIs(t, err, ErrQuery)
	assert.Equal(t, "dial tcp 127.0.0.1:5432: connect: connection refused", err.Error())
	assert.Zero(t, pool.Released())
	assert.Empty(t, pool.Queries())
}

func TestNowQueryErrorReleasesConnection(t *testing.T) {
	cause := errors.New("canceling statement due to statement timeout")
	pool := &dbtest.Pool{QueryErr: cause}

	_, err := New(pool).Now(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuery)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
	assert.Equal(t, 1, pool.Acquired())
	assert.Equal(t, 1, pool.Released())
}

func TestNowCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&dbtest.Pool{}).Now(ctx)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1970-01-01T00:00:00.000Z", Format(time.Unix(0, 0)))
	assert.Equal(t, "2024-12-31T23:59:59.999Z", Format(time.Date(2024, 12, 31, 23, 59, 59, 999999999, time.UTC)))
}
