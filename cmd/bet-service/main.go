package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/jogo-do-bicho-platform/internal/bet-service/catalog"
	bhttp "github.com/radieske/jogo-do-bicho-platform/internal/bet-service/http"
	kpub "github.com/radieske/jogo-do-bicho-platform/internal/bet-service/producer"
	"github.com/radieske/jogo-do-bicho-platform/internal/bet-service/repo"
	"github.com/radieske/jogo-do-bicho-platform/internal/bet-service/wallet"
	sharedcache "github.com/radieske/jogo-do-bicho-platform/internal/shared/cache"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/config"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/db"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/logger"
	"github.com/radieske/jogo-do-bicho-platform/internal/shared/metrics"
)

func main() {
	cfg := config.MustLoad("bet-service")
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres
	pg, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, db.Options{
		MaxOpen: cfg.PostgresMaxOpen, MaxIdle: cfg.PostgresMaxIdle, MaxLifetime: cfg.PostgresMaxLife,
	})
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := sharedcache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic bet_placed)
	publ, writer := kpub.NewFromConfig(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	cat := catalog.New(log, catalog.NewPostgresSource(pg), catalog.RedisStore{R: rdb}, cfg.CatalogCacheTTL)
	go cat.Watch(ctx, rdb, cfg.RedisPubSubChannel)

	repository := repo.NewPostgres(pg)
	wcli := wallet.New(cfg.WalletURL, cfg.WalletTimeout) // wallet-service

	// HTTP público
	api := bhttp.NewServer(log, cat, repository, wcli, publ, bhttp.NewMetrics(prometheus.DefaultRegisterer))
	apiSrv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(log, cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})

	go func() {
		log.Info("bet-service listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("api", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("bet-service stopped")
}
