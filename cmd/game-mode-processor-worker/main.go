package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/jogo-do-bicho-platform/internal/game-mode-processor/cache"
	"github.com/radieske/jogo-do-bicho-platform/internal/game-mode-processor/consumer"
	"github.com/radieske/jogo-do-bicho-platform/internal/game-mode-processor/pubsub"
	"github.com/radieske/jogo-do-bicho-platform/internal/game-mode-processor/repository"
	sharedcache "github.com/radieske/jogo-do-bicho-platform/internal/shared/cache"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/config"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/db"
	sharedkafka "github.com/radieske/jogo-do-bicho-platform/internal/shared/kafka"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/logger"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/metrics"
	"github.com/radieske/jogo-do-bicho-platform/pkg/contracts/topics"
)

func main() {
	cfg := config.MustLoad("game-mode-processor-worker")
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Inicializa dependências: Postgres e Redis
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, db.Options{
		MaxOpen: cfg.PostgresMaxOpen, MaxIdle: cfg.PostgresMaxIdle, MaxLifetime: cfg.PostgresMaxLife,
	})
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	// Configura o consumer Kafka (consumer group game-mode-processor)
	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicGameModeUpdates, "game-mode-processor")
	defer reader.Close()
	dlq := sharedkafka.NewWriter(cfg.KafkaBrokers, topics.GameModeUpdatesDLQ)
	defer dlq.Close()

	// Métricas Prometheus para monitoramento do processamento
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_mode_proc_messages_consumed_total", Help: "mensagens consumidas"})
	persist := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_mode_proc_db_writes_total", Help: "escritas no banco (upsert+history)"})
	stale := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_mode_proc_stale_total", Help: "edições com versão antiga ignoradas"})
	invalidated := prometheus.NewCounter(prometheus.CounterOpts{Name: "game_mode_proc_invalidations_total", Help: "snapshots invalidados"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "game_mode_proc_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, persist, stale, invalidated, errorsBy)

	// Instancia o processor, conectando callbacks de métricas
	proc := &consumer.Processor{
		Log:           log,
		Reader:        reader,
		Repo:          repository.NewPostgresRepo(pg),
		Cache:         cache.NewRedisCache(redisClient),
		Broadcaster:   pubsub.NewRedisBroadcaster(redisClient, cfg.RedisPubSubChannel),
		DLQ:           dlq,
		OnConsumed:    func() { consumed.Inc() },
		OnPersist:     func() { persist.Inc() },
		OnStale:       func() { stale.Inc() },
		OnInvalidated: func() { invalidated.Inc() },
		OnError:       func(stage string) { errorsBy.WithLabelValues(stage).Inc() },
	}

	// Servidor HTTP para métricas e health check
	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		return redisClient.Ping(ctx).Err()
	})
	defer func() {
		sctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = metricsSrv.Shutdown(sctx)
	}()

	log.Info("game-mode-processor started", zap.String("topic", cfg.TopicGameModeUpdates))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("game-mode-processor stopped")
}
