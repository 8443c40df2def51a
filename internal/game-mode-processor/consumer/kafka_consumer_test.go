package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/jogo-do-bicho-platform/internal/game-mode-processor/pubsub"
	"github.com/radieske/jogo-do-bicho-platform/pkg/contracts/events"
)

type fakeRepo struct {
	applied []events.GameModeUpdate
	version map[int64]int
	err     error
}

func (f *fakeRepo) Apply(_ context.Context, e events.GameModeUpdate) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.version[e.GameModeID] >= e.Version {
		return false, nil
	}
	f.version[e.GameModeID] = e.Version
	f.applied = append(f.applied, e)
	return true, nil
}

type fakeCache struct{ invalidations int }

func (f *fakeCache) Invalidate(context.Context) error {
	f.invalidations++
	return nil
}

type fakeBroadcaster struct{ sent []pubsub.Invalidation }

func (f *fakeBroadcaster) Publish(_ context.Context, msg pubsub.Invalidation) error {
	f.sent = append(f.sent, msg)
	return nil
}

type fakeDLQ struct{ msgs []kafka.Message }

func (f *fakeDLQ) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

// sliceReader entrega as mensagens e depois bloqueia até o ctx acabar.
type sliceReader struct{ msgs []kafka.Message }

func (r *sliceReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

type fixture struct {
	proc   *Processor
	repo   *fakeRepo
	cache  *fakeCache
	bcast  *fakeBroadcaster
	dlq    *fakeDLQ
	errors map[string]int
}

func newFixture() *fixture {
	f := &fixture{
		repo:   &fakeRepo{version: map[int64]int{}},
		cache:  &fakeCache{},
		bcast:  &fakeBroadcaster{},
		dlq:    &fakeDLQ{},
		errors: map[string]int{},
	}
	f.proc = &Processor{
		Log:         zap.NewNop(),
		Repo:        f.repo,
		Cache:       f.cache,
		Broadcaster: f.bcast,
		DLQ:         f.dlq,
		OnError:     func(stage string) { f.errors[stage]++ },
	}
	return f
}

func update(id int64, odds string, version int) kafka.Message {
	b, _ := json.Marshal(events.GameModeUpdate{
		GameModeID: id,
		Name:       "Grupo",
		Odds:       decimal.RequireFromString(odds),
		Active:     true,
		UpdatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Version:    version,
	})
	return kafka.Message{Key: []byte("gm"), Value: b}
}

func TestHandleAppliesAndInvalidates(t *testing.T) {
	f := newFixture()
	f.proc.Handle(context.Background(), update(1, "18", 1))

	if len(f.repo.applied) != 1 || !f.repo.applied[0].Odds.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("applied = %+v", f.repo.applied)
	}
	if f.cache.invalidations != 1 {
		t.Errorf("invalidations = %d", f.cache.invalidations)
	}
	if len(f.bcast.sent) != 1 || f.bcast.sent[0].GameModeID != 1 || f.bcast.sent[0].Version != 1 {
		t.Errorf("broadcast = %+v", f.bcast.sent)
	}
}

func TestHandleIgnoresStaleVersion(t *testing.T) {
	f := newFixture()
	stale := 0
	f.proc.OnStale = func() { stale++ }

	f.proc.Handle(context.Background(), update(1, "20", 2))
	f.proc.Handle(context.Background(), update(1, "18", 1))

	if len(f.repo.applied) != 1 || stale != 1 {
		t.Errorf("applied = %d, stale = %d", len(f.repo.applied), stale)
	}
	if f.cache.invalidations != 1 {
		t.Errorf("stale update invalidated the cache")
	}
}

func TestHandleInvalidGoesToDLQ(t *testing.T) {
	cases := []struct {
		name  string
		msg   kafka.Message
		stage string
	}{
		{"bad json", kafka.Message{Value: []byte("{oops")}, "decode"},
		{"zero odds", update(1, "0", 1), "validate"},
		{"negative odds", update(1, "-3", 1), "validate"},
		{"no id", update(0, "18", 1), "validate"},
		{"no version", update(1, "18", 0), "validate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.proc.Handle(context.Background(), tc.msg)

			if len(f.repo.applied) != 0 {
				t.Error("invalid update persisted")
			}
			if f.errors[tc.stage] != 1 {
				t.Errorf("errors = %v", f.errors)
			}
			if len(f.dlq.msgs) != 1 {
				t.Fatalf("dlq = %d", len(f.dlq.msgs))
			}
			if h := f.dlq.msgs[0].Headers; len(h) == 0 || h[0].Key != "error" {
				t.Errorf("dlq headers = %+v", h)
			}
		})
	}
}

func TestHandleRepoErrorSkipsInvalidation(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("db down")

	f.proc.Handle(context.Background(), update(1, "18", 1))

	if f.errors["db_apply"] != 1 || f.cache.invalidations != 0 || len(f.bcast.sent) != 0 {
		t.Errorf("errors = %v, invalidations = %d", f.errors, f.cache.invalidations)
	}
	if len(f.dlq.msgs) != 0 {
		t.Error("transient failure sent to dlq")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture()
	consumed := 0
	processed := make(chan struct{}, 2)
	f.proc.OnConsumed = func() { consumed++ }
	f.proc.OnInvalidated = func() { processed <- struct{}{} }
	f.proc.Reader = &sliceReader{msgs: []kafka.Message{update(1, "18", 1), update(2, "60", 1)}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.proc.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-processed:
		case <-time.After(2 * time.Second):
			t.Fatal("messages not processed")
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
	if consumed != 2 {
		t.Errorf("consumed = %d", consumed)
	}
}
