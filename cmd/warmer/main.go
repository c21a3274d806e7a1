package main

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"trip_category/internal/adapters/observability"
	redisad "trip_category/internal/adapters/redis"
	"trip_category/internal/app"
	"trip_category/internal/domain"
	"trip_category/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("source", cfg.OfferSource).
		Int("workers", cfg.WarmWorkers).
		Int("modules", len(cfg.WarmModules)).
		Msg("warmer starting")

	if len(cfg.WarmModules) == 0 {
		log.Warn().Msg("WARM_MODULES is empty, nothing to do")
		return
	}

	src, err := shared.OpenSources(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open sources failed")
	}
	defer src.Close()

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}

	warm := app.NewWarmService(src.Modules, src.Offers, cache, cfg.CacheTTL)
	sem := semaphore.NewWeighted(int64(max(cfg.WarmWorkers, 1)))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)

	for _, ref := range cfg.WarmModules {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(ref domain.ModuleRef) {
			defer wg.Done()
			defer sem.Release(1)

			if err := warm.WarmModule(ctx, ref); err != nil {
				failed.Add(1)
				log.Warn().Str("module", ref.String()).Err(err).Msg("warm failed")
				return
			}
			log.Info().Str("module", ref.String()).Msg("warm ok")
		}(ref)
	}

	wg.Wait()
	log.Info().Int32("failed", failed.Load()).Msg("warming completed")
}
