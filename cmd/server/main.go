package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"verso/internal/ops"
	"verso/internal/platform/config"
	"verso/internal/platform/httpserver"
	"verso/internal/platform/logger"
	platformpg "verso/internal/platform/postgres"
	platformredis "verso/internal/platform/redis"
	"verso/internal/relay"
	"verso/pkg/hook"
	"verso/pkg/hook/dispatch"
	logprovider "verso/pkg/hook/providers/logging"
	pgprovider "verso/pkg/hook/providers/postgres"
	redisprovider "verso/pkg/hook/providers/redis"
)

// main wires the hook trail service: events arrive over Kafka, the
// dispatcher fans them out to whichever trail providers are configured, and
// an operational listener exposes health and metrics. Business logic lives in
// pkg/hook and internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	providers := []hook.Provider{logprovider.New(log)}
	var checks []ops.HealthCheck

	db, err := platformpg.Open(ctx, cfg.PostgresURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		trail := pgprovider.New(db)
		if err := trail.Migrate(ctx); err != nil {
			return err
		}
		providers = append(providers, trail)
		checks = append(checks, ops.HealthCheck{Name: "postgres", Check: db.PingContext})
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		providers = append(providers, redisprovider.New(redisClient.Client, cfg.Redis.Stream))
		checks = append(checks, ops.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	dispatcher := dispatch.New(providers,
		dispatch.WithLogger(log),
		dispatch.WithMetrics(dispatch.NewMetrics(prometheus.DefaultRegisterer)),
		dispatch.WithQueueSize(cfg.QueueSize),
	)

	var consumer *relay.Consumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer, err = relay.New(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup, dispatcher,
			relay.WithLogger(log))
		if err != nil {
			return err
		}
		defer consumer.Close()
	} else {
		log.Warn("no kafka brokers configured, running without event intake")
	}

	srv := httpserver.New(cfg.Addr, ops.NewRouter(checks...))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return dispatcher.Run(ctx)
	})

	if consumer != nil {
		g.Go(func() error {
			return consumer.Run(ctx)
		})
	}

	g.Go(func() error {
		log.Info("starting hook trail service", "addr", cfg.Addr, "providers", len(providers))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
