package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCacheSetGet(t *testing.T) {
	c, err := New("", time.Minute)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := Key("test", "some input")

	hit, err := c.Get(ctx, key, &payload{})
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, key, payload{Name: "a", Count: 2}))

	var got payload
	hit, err = c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c, err := New("", 10*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := Key("test", "expiring")
	require.NoError(t, c.Set(ctx, key, payload{Name: "x"}))

	time.Sleep(25 * time.Millisecond)

	var got payload
	hit, err := c.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestKeyStability(t *testing.T) {
	assert.Equal(t, Key("ingest", "https://example.com"), Key("ingest", "https://example.com"))
	assert.NotEqual(t, Key("ingest", "https://example.com"), Key("ingest", "https://example.org"))
	assert.NotEqual(t, Key("ingest", "input"), Key("verify", "input"))
}

func TestInvalidRedisURL(t *testing.T) {
	_, err := New("not-a-url", time.Minute)
	assert.Error(t, err)
}
