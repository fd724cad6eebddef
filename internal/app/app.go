// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"github.com/law-makers/linkfill/internal/cache"
	"github.com/law-makers/linkfill/internal/config"
	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/engine/batch"
	"github.com/law-makers/linkfill/internal/engine/metadata"
	"github.com/law-makers/linkfill/internal/engine/static"
	"github.com/law-makers/linkfill/internal/proxy"
	"github.com/law-makers/linkfill/internal/ratelimit"
	"github.com/law-makers/linkfill/internal/retry"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Cache       cache.Cache
	RateLimiter ratelimit.RateLimiter
	Proxies     *proxy.ProxyPool
	HTTPClient  *http.Client
	Fetcher     *static.Fetcher
	Extractor   *metadata.Extractor
	Scraper     *engine.ProductScraper
	Batch       *batch.Scraper
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures logging based on the provided config
//   - Creates the in-memory document cache
//   - Creates the per-domain rate limiter and the proxy pool
//   - Initializes the HTTP client with a cookie jar and proxy routing
//   - Creates the fetcher, the extractor and the product scraper
//
// If any step fails, an error is returned and no resources are allocated.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := ConfigureLogging(cfg)

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Dur("ttl", cfg.CacheTTL).
		Msg("Memory cache initialized")

	rateLimiter := ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	proxies := proxy.NewProxyPool(cfg.Proxies)
	if proxies.Len() > 0 {
		logger.Debug().Int("proxies", proxies.Len()).Msg("Proxy rotation enabled")
	}

	// Per-request deadlines come from the fetcher's context, the client
	// timeout only guards against a misbehaving fetch path.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout * time.Duration(cfg.RetryAttempts+1),
		Jar:     jar,
		Transport: &http.Transport{
			Proxy:               proxy.FromRequest,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryAttempts

	fetcher := static.New(
		memCache,
		rateLimiter,
		httpClient,
		cfg.HTTPTimeout,
		cfg.UserAgent,
		static.WithProxyPool(proxies),
		static.WithRetryConfig(retryCfg),
		static.WithCacheTTL(cfg.CacheTTL),
		static.WithMaxBodyBytes(cfg.MaxBodyBytes),
		static.WithMaxRedirects(cfg.MaxRedirects),
	)

	extractor := metadata.New(
		metadata.WithMaxPrice(cfg.MaxPrice),
		metadata.WithPriceCandidates(cfg.PriceCandidates),
	)

	scraper := engine.NewProductScraper(fetcher, extractor)
	batchScraper := batch.New(scraper, cfg.Concurrency)
	logger.Debug().
		Dur("timeout", cfg.HTTPTimeout).
		Int("retry_attempts", cfg.RetryAttempts).
		Int("concurrency", batchScraper.Concurrency()).
		Msg("Scraper initialized")

	return &Application{
		Config:      cfg,
		Logger:      logger,
		Cache:       memCache,
		RateLimiter: rateLimiter,
		Proxies:     proxies,
		HTTPClient:  httpClient,
		Fetcher:     fetcher,
		Extractor:   extractor,
		Scraper:     scraper,
		Batch:       batchScraper,
		startTime:   time.Now(),
	}, nil
}

// ConfigureLogging sets the global zerolog level and output from cfg and
// returns the resulting logger.
func ConfigureLogging(cfg *config.Config) *zerolog.Logger {
	var logLevel zerolog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	default:
		logLevel = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer
	if cfg.JSONLog {
		logWriter = os.Stderr
	} else {
		logWriter = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	logger := log.Logger

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	return &logger
}

// Close releases the cache and idle connections. Errors are logged, never returned early.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	if a.Cache != nil {
		a.Cache.Close()
	}

	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
