package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *Client {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL is not set")
	}
	log, _ := test.NewNullLogger()
	c, err := Initialize(url, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestInitializeRejectsBadURL(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Initialize("not-a-url", log)
	assert.Error(t, err)
}

func TestIncrWindow(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	key := "test:rl:" + uuid.NewString()

	for i := int64(1); i <= 3; i++ {
		n, err := c.IncrWindow(ctx, key, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	ttl, err := c.rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestIncrWindowRepairsMissingExpiry(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	key := "test:rl:" + uuid.NewString()
	t.Cleanup(func() { c.rdb.Del(context.Background(), key) })

	require.NoError(t, c.rdb.Set(ctx, key, 5, 0).Err())

	n, err := c.IncrWindow(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	ttl, err := c.rdb.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestIncrWindowExpires(t *testing.T) {
	c := setup(t)
	ctx := context.Background()
	key := "test:rl:" + uuid.NewString()

	_, err := c.IncrWindow(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return c.rdb.Exists(ctx, key).Val() == 0
	}, 2*time.Second, 20*time.Millisecond)

	n, err := c.IncrWindow(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPublishListen(t *testing.T) {
	c := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	channel := "test:events:" + uuid.NewString()

	msgs, err := c.Listen(ctx, channel)
	require.NoError(t, err)
	require.NoError(t, c.Publish(ctx, channel, []byte("hello")))

	select {
	case msg := <-msgs:
		assert.Equal(t, "hello", string(msg))
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
