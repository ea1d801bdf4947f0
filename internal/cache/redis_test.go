package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisGet(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	r := NewRedis(client)

	mock.ExpectGet("hit").SetVal(`{"a":1}`)
	got, found, err := r.Get(ctx, "hit")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"a":1}`, string(got))

	mock.ExpectGet("miss").RedisNil()
	_, found, err = r.Get(ctx, "miss")
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectGet("broken").SetErr(errors.New("connection reset"))
	_, found, err = r.Get(ctx, "broken")
	assert.Error(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSetWithExpiry(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	r := NewRedis(client)

	mock.ExpectSet("k", []byte("v"), 5*time.Minute).SetVal("OK")
	require.NoError(t, r.SetWithExpiry(ctx, "k", []byte("v"), 5*time.Minute))

	mock.ExpectSet("k", []byte("v"), 5*time.Minute).SetErr(errors.New("oom"))
	assert.Error(t, r.SetWithExpiry(ctx, "k", []byte("v"), 5*time.Minute))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialMiniredis(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	client, err := Dial(ctx, Config{Addr: srv.Addr()})
	require.NoError(t, err)
	defer client.Close()
	r := NewRedis(client)

	require.NoError(t, r.SetWithExpiry(ctx, "k", []byte("v"), time.Minute))
	got, found, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", string(got))

	srv.FastForward(time.Minute)
	_, found, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDialFails(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := Dial(context.Background(), Config{Addr: addr, DialTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
