package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "trip_category/internal/adapters/http_server"
	"trip_category/internal/adapters/observability"
	redisad "trip_category/internal/adapters/redis"
	"trip_category/internal/app"
	"trip_category/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	if ms := observability.Serve(cfg.MetricsAddr, reg); ms != nil {
		defer ms.Close()
	}

	src, err := shared.OpenSources(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open sources failed")
	}
	defer src.Close()

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := cache.Ping(ctx); err != nil {
		// cache-aside: degrade to upstream reads
		log.Warn().Err(err).Msg("redis unreachable")
	}

	svc := app.NewCategoryService(src.Modules, src.Offers, src.Booking, cache, cfg.CacheTTL)

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(server.NewHandlers(svc))

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
