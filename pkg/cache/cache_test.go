package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	ID    uint   `json:"id"`
	Name  string `json:"nombre"`
	Stock int    `json:"stock"`
}

func TestMemoryRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	m := NewMemory()
	m.now = func() time.Time { return clock }

	require.NoError(t, m.Set(ctx, "productos:all", []product{{ID: 1, Name: "Producto_1", Stock: 5}}, time.Minute))

	var got []product
	require.True(t, m.Get(ctx, "productos:all", &got))
	assert.Equal(t, "Producto_1", got[0].Name)

	clock = clock.Add(2 * time.Minute)
	assert.False(t, m.Get(ctx, "productos:all", &got))
}

func TestMemoryDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Set(ctx, "b", 2, 0))

	require.NoError(t, m.Del(ctx, "a", "b"))

	var v int
	assert.False(t, m.Get(ctx, "a", &v))
	assert.False(t, m.Get(ctx, "b", &v))
}

func TestRememberLoadsOnceThenHits(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	calls := 0
	load := func(context.Context) ([]product, error) {
		calls++
		return []product{{ID: 7, Stock: 3}}, nil
	}

	first, err := Remember(ctx, m, "k", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, m, "k", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("db down")

	_, err := Remember(ctx, m, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var v int
	assert.False(t, m.Get(ctx, "k", &v))
}

func TestConnectFailsFastWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", "")
	assert.Error(t, err)
}

func TestOpenFallsBackToMemory(t *testing.T) {
	assert.Equal(t, "memory", Open(context.Background(), "memory", "", "").Driver())
	assert.Equal(t, "memory", Open(context.Background(), "redis", "127.0.0.1:1", "").Driver())
}
