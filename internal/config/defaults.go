package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultHTTPTimeout       = 15 * time.Second
	DefaultMaxRedirects      = 10
	DefaultMaxBodyBytes      = 10 * 1024 * 1024 // 10MB
	DefaultRetryAttempts     = 3
	DefaultRateLimitRPS      = 2.0
	DefaultRateLimitBurst    = 4
	DefaultCacheTTL          = 5 * time.Minute
	DefaultCacheMaxSizeBytes = 100 * 1024 * 1024 // 100MB
	DefaultMaxPrice          = 10_000_000
	DefaultPriceCandidates   = 3
	DefaultConcurrency       = 0 // auto-tune
	DefaultServerAddr        = ":8080"
	DefaultAPIRateLimit      = 5.0
	DefaultCORSOrigins       = "*"
	DefaultShutdownTimeout   = 10 * time.Second
	MaxConcurrency           = 64
	EnvPrefix                = "LINKFILL_"
)
