package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey é a mesma chave lida pelo catálogo do bet-service.
const SnapshotKey = "catalog:snapshot"

// RedisCache encapsula a chave do snapshot de modalidades no Redis
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache cria uma instância de cache Redis
func NewRedisCache(c *redis.Client) *RedisCache {
	return &RedisCache{Client: c}
}

// Invalidate apaga o snapshot; a próxima aposta recarrega do Postgres
func (r *RedisCache) Invalidate(ctx context.Context) error {
	return r.Client.Del(ctx, SnapshotKey).Err()
}
