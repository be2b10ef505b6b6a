package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	server "travel_hotels/internal/adapters/http_server"
	"travel_hotels/internal/adapters/kafka"
	"travel_hotels/internal/adapters/observability"
	redisad "travel_hotels/internal/adapters/redis"
	"travel_hotels/internal/app"
	"travel_hotels/internal/domain"
	"travel_hotels/internal/shared"
	"travel_hotels/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	// store
	repo, closeRepo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store init failed")
	}
	defer closeRepo()

	// optional cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, hotel cache disabled")
		} else {
			cache = rc
			defer func() { _ = rc.Close() }()
		}
	}

	// optional event stream
	var events domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			log.Warn().Err(err).Msg("kafka unavailable, domain events disabled")
		} else {
			events = pub
			defer func() { _ = pub.Close() }()
		}
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	b := app.NewBookingService(repo, q, events)

	var limiter *rate.Limiter
	if cfg.WriteRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.WriteRPS), int(cfg.WriteRPS)+1)
	}

	// http
	srv := server.New(server.WithRequestTimeout(cfg.HTTPTimeout))
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, B: b, WriteLimiter: limiter})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreDriver).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
