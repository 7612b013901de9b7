package testutils

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// DefaultTestRedisURL is dialed when REDIS_URL is unset. DB 15 keeps tests away from real data.
const DefaultTestRedisURL = "redis://localhost:6379/15"

// CreateTestRedisClientOrSkip connects to REDIS_URL, flushes the database and registers a
// cleanup. The test is skipped when no server answers.
func CreateTestRedisClientOrSkip(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = DefaultTestRedisURL
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err, "invalid REDIS_URL")

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "Failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}
