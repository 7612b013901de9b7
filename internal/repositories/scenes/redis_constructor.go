package scenes

import (
	"github.com/KirkDiggler/dnd-babonus/internal/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedis creates a Redis-backed snapshot repository with default configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client:        client,
		UUIDGenerator: uuid.NewGoogleUUIDGenerator(),
	})
}
