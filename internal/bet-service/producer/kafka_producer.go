package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	sharedkafka "github.com/radieske/jogo-do-bicho-platform/internal/shared/kafka"
	"github.com/radieske/jogo-do-bicho-platform/pkg/contracts/events"
)

// MessageWriter é o que o publisher precisa do *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	Writer MessageWriter
	Topic  string
	now    func() time.Time
}

func NewKafkaPublisher(w MessageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Topic: topic, now: time.Now}
}

// NewFromConfig cria o writer do tópico bet_placed a partir da lista de brokers.
func NewFromConfig(brokers, topic string) (*KafkaPublisher, *kafka.Writer) {
	w := sharedkafka.NewWriter(brokers, topic)
	return NewKafkaPublisher(w, topic), w
}

// PublishBetPlaced publica o evento com a chave = betID, para que eventos da
// mesma aposta caiam na mesma partição.
func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	now := p.now()
	e.TsUnixMs = now.UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal bet_placed: %w", err)
	}
	if err := p.Writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b, Time: now}); err != nil {
		return fmt.Errorf("publish bet_placed %s: %w", e.BetID, err)
	}
	return nil
}
