package pubsub

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

type RedisBroadcaster struct {
	r       *redis.Client
	channel string
}

func NewRedisBroadcaster(r *redis.Client, channel string) *RedisBroadcaster {
	return &RedisBroadcaster{r: r, channel: channel}
}

// Invalidation é o aviso enviado às instâncias do bet-service para descartarem
// a cópia em memória do catálogo.
type Invalidation struct {
	GameModeID int64 `json:"gameModeId"`
	Version    int   `json:"version"`
}

func (b *RedisBroadcaster) Publish(ctx context.Context, msg Invalidation) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.r.Publish(ctx, b.channel, payload).Err()
}
