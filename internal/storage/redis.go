package storage

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

type RedisKV struct {
	redisClient *redis.Client
}

func NewRedisKV(redisClient *redis.Client) *RedisKV {
	return &RedisKV{
		redisClient: redisClient,
	}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, error) {
	cmd := kv.redisClient.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return cmd.Val(), nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return kv.redisClient.Set(ctx, key, value, 0).Err()
}

func (kv *RedisKV) Delete(ctx context.Context, key string) error {
	return kv.redisClient.Del(ctx, key).Err()
}
