package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"trip_category/internal/domain"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RequestTimeout time.Duration
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	BookingBase    string
	BookingKey     string
	BookingRPS     int
	OfferSource    string // api|mysql
	MySQLDSN       string
	CacheTTL       time.Duration
	WarmWorkers    int
	WarmModules    []domain.ModuleRef
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisDB:        atoi("REDIS_DB", 0),
		RedisPass:      env("REDIS_PASSWORD", ""),
		BookingBase:    env("BOOKING_BASE_URL", "http://localhost:9000/api/v1"),
		BookingKey:     env("BOOKING_API_KEY", ""),
		BookingRPS:     atoi("BOOKING_RPS", 10),
		OfferSource:    strings.ToLower(env("OFFER_SOURCE", "api")),
		MySQLDSN:       env("MYSQL_DSN", "reader:reader@tcp(localhost:3306)/inventory?parseTime=true&loc=UTC"),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		WarmWorkers:    atoi("WARM_WORKERS", 8),
		WarmModules:    ParseModuleRefs(os.Getenv("WARM_MODULES")),
	}
	if c.BookingKey == "" {
		log.Warn().Msg("BOOKING_API_KEY is empty")
	}
	if c.OfferSource != "api" && c.OfferSource != "mysql" {
		log.Warn().Str("source", c.OfferSource).Msg("unknown OFFER_SOURCE, using api")
		c.OfferSource = "api"
	}
	return c
}

// ParseModuleRefs reads a comma list of tripID:moduleID, skipping malformed entries.
func ParseModuleRefs(s string) []domain.ModuleRef {
	var out []domain.ModuleRef
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		trip, module, ok := strings.Cut(part, ":")
		if !ok || trip == "" || module == "" {
			log.Warn().Str("entry", part).Msg("skipping malformed module ref")
			continue
		}
		out = append(out, domain.ModuleRef{TripID: trip, ModuleID: module})
	}
	return out
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
