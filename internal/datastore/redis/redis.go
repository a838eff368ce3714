package redisClient

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// InitializeRedis opens the client used for counter caches, the reveal
// cooldown store, and the realtime pub/sub channel.
func InitializeRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
