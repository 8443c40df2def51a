package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/jogo-do-bicho-platform/internal/game-mode-processor/pubsub"
	"github.com/radieske/jogo-do-bicho-platform/pkg/contracts/events"
)

// Reader é o subconjunto do *kafka.Reader usado pelo loop.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type Repository interface {
	Apply(ctx context.Context, e events.GameModeUpdate) (bool, error)
}

type Cache interface {
	Invalidate(ctx context.Context) error
}

type Broadcaster interface {
	Publish(ctx context.Context, msg pubsub.Invalidation) error
}

// DLQ recebe mensagens que nunca vão ser processáveis (JSON ruim, odd inválida).
type DLQ interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Processor consome edições de modalidades do Kafka, persiste no banco e
// invalida o snapshot em cache.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log         *zap.Logger
	Reader      Reader
	Repo        Repository
	Cache       Cache
	Broadcaster Broadcaster
	DLQ         DLQ // opcional

	OnConsumed    func()       // métricas (counter++)
	OnPersist     func()       // métricas
	OnStale       func()       // versão antiga ignorada
	OnInvalidated func()       // métricas
	OnError       func(string) // métricas por fase
}

var errInvalidUpdate = errors.New("invalid game mode update")

// Validate rejeita edições que deixariam o catálogo incoerente.
func Validate(ev events.GameModeUpdate) error {
	switch {
	case ev.GameModeID <= 0:
		return fmt.Errorf("%w: game_mode_id %d", errInvalidUpdate, ev.GameModeID)
	case ev.Name == "":
		return fmt.Errorf("%w: empty name", errInvalidUpdate)
	case !ev.Odds.IsPositive():
		return fmt.Errorf("%w: odds %s", errInvalidUpdate, ev.Odds)
	case ev.Version <= 0:
		return fmt.Errorf("%w: version %d", errInvalidUpdate, ev.Version)
	}
	return nil
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			time.Sleep(500 * time.Millisecond)
			continue
		}

		p.Handle(ctx, m)
	}
}

// Handle processa uma mensagem. Erros são logados e contados; o loop segue.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	if p.OnConsumed != nil {
		p.OnConsumed() // callback de métrica: mensagem consumida
	}

	var ev events.GameModeUpdate
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		p.fail("decode")
		p.deadLetter(ctx, m, err)
		return
	}
	if err := Validate(ev); err != nil {
		p.Log.Warn("invalid game mode update", zap.Int64("game_mode_id", ev.GameModeID), zap.Error(err))
		p.fail("validate")
		p.deadLetter(ctx, m, err)
		return
	}

	// Persiste modalidade e histórico no Postgres
	applied, err := p.Repo.Apply(ctx, ev)
	if err != nil {
		p.Log.Warn("db apply failed", zap.Int64("game_mode_id", ev.GameModeID), zap.Error(err))
		p.fail("db_apply")
		return
	}
	if !applied {
		p.Log.Debug("stale game mode update", zap.Int64("game_mode_id", ev.GameModeID), zap.Int("version", ev.Version))
		if p.OnStale != nil {
			p.OnStale()
		}
		return
	}
	if p.OnPersist != nil {
		p.OnPersist() // callback de métrica: persistência concluída
	}

	// Apostas novas passam a ver a odd nova; as já feitas guardam a delas
	if err := p.Cache.Invalidate(ctx); err != nil {
		p.Log.Warn("redis invalidate failed", zap.Error(err))
		p.fail("cache")
		// o TTL do snapshot limita a janela com odd antiga
	}
	if err := p.Broadcaster.Publish(ctx, pubsub.Invalidation{GameModeID: ev.GameModeID, Version: ev.Version}); err != nil {
		p.Log.Warn("invalidation broadcast failed", zap.Error(err))
		p.fail("broadcast")
		return
	}
	if p.OnInvalidated != nil {
		p.OnInvalidated()
	}

	p.Log.Info("game mode updated",
		zap.Int64("game_mode_id", ev.GameModeID),
		zap.String("odds", ev.Odds.String()),
		zap.Bool("active", ev.Active),
		zap.Int("version", ev.Version),
	)
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	dlq := kafka.Message{
		Key:   m.Key,
		Value: m.Value,
		Headers: append(m.Headers,
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "source_offset", Value: []byte(fmt.Sprint(m.Offset))},
		),
		Time: time.Now(),
	}
	if err := p.DLQ.WriteMessages(ctx, dlq); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		p.fail("dlq")
	}
}
