package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Kinds(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Config{})
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Kind())

	c, err = New(ctx, Config{Kind: " Memory "})
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Kind())

	_, err = New(ctx, Config{Kind: "memcached"})
	require.Error(t, err)
}

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute, "hm")

	_, err := c.Get(ctx, "k")
	require.True(t, IsNotFound(err))

	buf := []byte("v1")
	require.NoError(t, c.Set(ctx, "k", buf, 0))
	buf[0] = 'X'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, c.Delete(ctx, "k"))
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Expiration(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0, "")

	require.NoError(t, c.Set(ctx, "short", []byte("x"), 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", []byte("y"), 0))

	require.Eventually(t, func() bool {
		_, err := c.Get(ctx, "short")
		return IsNotFound(err)
	}, time.Second, 5*time.Millisecond)

	_, err := c.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemory_PingClose(t *testing.T) {
	c := NewMemory(time.Minute, "")
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	require.NoError(t, c.Close())
	_, err := c.Get(context.Background(), "k")
	assert.True(t, IsNotFound(err))
}

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "k", prefixed("", "k"))
	assert.Equal(t, "p:k", prefixed("p", "k"))
}
