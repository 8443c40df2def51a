package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/jogo-do-bicho-platform/internal/valuation"
)

// SnapshotKey guarda o JSON do snapshot no Redis. O worker de modalidades
// apaga essa chave quando uma odd muda.
const SnapshotKey = "catalog:snapshot"

// Source é a fonte de verdade do snapshot (Postgres).
type Source interface {
	LoadSnapshot(ctx context.Context) (valuation.Snapshot, error)
}

// Store é o subconjunto do Redis usado pelo catálogo.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error) // redis.Nil quando não existe
	Set(ctx context.Context, key string, b []byte, ttl time.Duration) error
}

// Catalog entrega o snapshot de modalidades/limites que vale para a próxima
// aposta. Ordem de leitura: memória local, Redis, Postgres.
type Catalog struct {
	log    *zap.Logger
	src    Source
	store  Store
	ttl    time.Duration // TTL no Redis
	memTTL time.Duration // TTL da cópia em memória
	now    func() time.Time

	mu     sync.Mutex
	mem    *valuation.Snapshot
	memExp time.Time
}

func New(log *zap.Logger, src Source, store Store, ttl time.Duration) *Catalog {
	return &Catalog{
		log:    log,
		src:    src,
		store:  store,
		ttl:    ttl,
		memTTL: ttl / 6,
		now:    time.Now,
	}
}

// Snapshot retorna o snapshot vigente. Falha do Redis não derruba a aposta:
// cai para o Postgres. Limites incoerentes nunca são entregues ao motor.
func (c *Catalog) Snapshot(ctx context.Context) (valuation.Snapshot, error) {
	c.mu.Lock()
	if c.mem != nil && c.now().Before(c.memExp) {
		s := *c.mem
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	if s, ok := c.fromStore(ctx); ok {
		c.remember(s)
		return s, nil
	}

	s, err := c.src.LoadSnapshot(ctx)
	if err != nil {
		return valuation.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	if err := s.Settings.Validate(); err != nil {
		return valuation.Snapshot{}, err
	}

	if b, err := json.Marshal(s); err == nil {
		if err := c.store.Set(ctx, SnapshotKey, b, c.ttl); err != nil {
			c.log.Warn("catalog cache set failed", zap.Error(err))
		}
	}
	c.remember(s)
	return s, nil
}

func (c *Catalog) fromStore(ctx context.Context) (valuation.Snapshot, bool) {
	b, err := c.store.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("catalog cache get failed", zap.Error(err))
		}
		return valuation.Snapshot{}, false
	}
	var s valuation.Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		c.log.Warn("catalog cache corrupted", zap.Error(err))
		return valuation.Snapshot{}, false
	}
	if err := s.Settings.Validate(); err != nil {
		c.log.Warn("catalog cache with invalid settings", zap.Error(err))
		return valuation.Snapshot{}, false
	}
	return s, true
}

func (c *Catalog) remember(s valuation.Snapshot) {
	if c.memTTL <= 0 {
		return
	}
	c.mu.Lock()
	c.mem = &s
	c.memExp = c.now().Add(c.memTTL)
	c.mu.Unlock()
}

// Engine monta o motor de valoração sobre o snapshot vigente.
func (c *Catalog) Engine(ctx context.Context) (*valuation.Engine, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return valuation.New(s), nil
}

// Forget descarta só a cópia em memória (aviso recebido via Pub/Sub).
func (c *Catalog) Forget() {
	c.mu.Lock()
	c.mem = nil
	c.mu.Unlock()
}

// Watch escuta o canal de invalidação até o ctx acabar.
func (c *Catalog) Watch(ctx context.Context, rdb *redis.Client, channel string) {
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.log.Debug("catalog invalidated", zap.String("payload", msg.Payload))
			c.Forget()
		}
	}
}

// RedisStore adapta *redis.Client para Store.
type RedisStore struct{ R *redis.Client }

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.R.Get(ctx, key).Bytes()
}

func (s RedisStore) Set(ctx context.Context, key string, b []byte, ttl time.Duration) error {
	return s.R.Set(ctx, key, b, ttl).Err()
}
