package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/yourorg/taxa-api/inat"
	"github.com/yourorg/taxa-api/internal/config"
	"github.com/yourorg/taxa-api/internal/taxa"
	"github.com/yourorg/taxa-api/internal/taxoncache"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}
	log := newLogger(cfg.LogLevel)

	client := inat.NewClient(inat.ClientConfig{
		BaseURL:           cfg.INatBaseURL,
		UserAgent:         cfg.UserAgent,
		Timeout:           cfg.UpstreamTimeout(),
		RetryMax:          cfg.RetryMax,
		RequestsPerSecond: cfg.UpstreamRPS,
		Burst:             cfg.UpstreamBurst,
	})

	var cache taxa.Cache
	if cfg.RedisAddr != "" {
		tc := taxoncache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL(), cfg.NegativeCacheTTL())
		if err := tc.Ping(ctx); err != nil {
			log.Warn("redis unreachable, taxon cache disabled", "addr", cfg.RedisAddr, "err", err)
		} else {
			cache = tc
		}
	}

	resolver := taxa.NewResolver(client, cache, []string{"family"}, cfg.IconicTaxon, log)
	aggregator := taxa.NewAggregator(client, cfg.MaxPages, log)
	svc := &taxa.Service{Resolver: resolver, Aggregator: aggregator}

	// The validation endpoint accepts the broader rank set; it skips the
	// cache because cache keys do not carry the rank set.
	validateResolver := taxa.NewResolver(client, nil, []string{"family", "superfamily", "order"}, cfg.IconicTaxon, log)

	router := BuildRouter(svc, validateResolver, log)

	log.Info("taxa-api listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)
	return log
}
