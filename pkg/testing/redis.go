package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
)

// RedisClient connects to the redis at GYMLOG_TEST_REDIS_ADDR (default
// localhost:6379) and skips the test when that env var is unset and no
// local redis answers. Keys written by the test are the caller's to clean.
func RedisClient(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	addr, explicit := os.LookupEnv("GYMLOG_TEST_REDIS_ADDR")
	if !explicit {
		addr = "localhost:6379"
	}
	t.Logf("using redis addr: [%s]", addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("GYMLOG_TEST_REDIS_PASS"),
		DB:       0,
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	defer pingCancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		if !explicit {
			t.Skipf("no local redis: %s", err)
		}
		require.NoError(t, err)
	}

	return ctx, rdb
}
