package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool
	Quiet    bool

	// HTTP/Scraping
	HTTPTimeout   time.Duration
	UserAgent     string
	Proxies       []string
	MaxRedirects  int
	MaxBodyBytes  int64
	RetryAttempts int

	// Rate Limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Caching
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64

	// Extraction
	MaxPrice        float64
	PriceCandidates int

	// Batch
	Concurrency int

	// HTTP API
	ServerAddr      string
	APIRateLimit    float64
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Default returns a Config populated with the package defaults
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		HTTPTimeout:       DefaultHTTPTimeout,
		UserAgent:         DefaultUserAgent,
		MaxRedirects:      DefaultMaxRedirects,
		MaxBodyBytes:      DefaultMaxBodyBytes,
		RetryAttempts:     DefaultRetryAttempts,
		RateLimitRPS:      DefaultRateLimitRPS,
		RateLimitBurst:    DefaultRateLimitBurst,
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
		MaxPrice:          DefaultMaxPrice,
		PriceCandidates:   DefaultPriceCandidates,
		Concurrency:       DefaultConcurrency,
		ServerAddr:        DefaultServerAddr,
		APIRateLimit:      DefaultAPIRateLimit,
		CORSOrigins:       splitList(DefaultCORSOrigins),
		ShutdownTimeout:   DefaultShutdownTimeout,
	}
}

// Load builds a Config by combining defaults, an optional .env file, LINKFILL_*
// environment variables, and CLI flags, in increasing order of precedence.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	envFile := ".env"
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil && f.Value.String() != "" {
			envFile = f.Value.String()
		}
	}
	// godotenv never overrides variables already set in the environment
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if cmd != nil {
		if err := applyFlags(cfg, cmd); err != nil {
			return nil, fmt.Errorf("invalid flag: %w", err)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := env("USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := env("PROXY"); v != "" {
		cfg.Proxies = splitList(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := env("SERVER_ADDR"); v != "" {
		cfg.ServerAddr = v
	}
	if v := env("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	var err error
	if cfg.HTTPTimeout, err = envDuration("TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.CacheTTL, err = envDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return err
	}
	if cfg.MaxPrice, err = envFloat("MAX_PRICE", cfg.MaxPrice); err != nil {
		return err
	}
	if cfg.RateLimitRPS, err = envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS); err != nil {
		return err
	}
	if cfg.APIRateLimit, err = envFloat("API_RATE_LIMIT", cfg.APIRateLimit); err != nil {
		return err
	}
	if cfg.PriceCandidates, err = envInt("PRICE_CANDIDATES", cfg.PriceCandidates); err != nil {
		return err
	}
	if cfg.RetryAttempts, err = envInt("RETRY_ATTEMPTS", cfg.RetryAttempts); err != nil {
		return err
	}
	if cfg.MaxRedirects, err = envInt("MAX_REDIRECTS", cfg.MaxRedirects); err != nil {
		return err
	}
	if cfg.Concurrency, err = envInt("CONCURRENCY", cfg.Concurrency); err != nil {
		return err
	}
	return nil
}

func applyFlags(cfg *Config, cmd *cobra.Command) error {
	if f := cmd.Flags().Lookup("user-agent"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.UserAgent = s
		}
	}
	if f := cmd.Flags().Lookup("proxy"); f != nil {
		if s := f.Value.String(); s != "" {
			cfg.Proxies = splitList(s)
		}
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		d, err := time.ParseDuration(f.Value.String())
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if f := cmd.Flags().Lookup("max-price"); f != nil && f.Changed {
		v, err := strconv.ParseFloat(f.Value.String(), 64)
		if err != nil {
			return fmt.Errorf("--max-price: %w", err)
		}
		cfg.MaxPrice = v
	}
	if f := cmd.Flags().Lookup("price-candidates"); f != nil && f.Changed {
		v, err := strconv.Atoi(f.Value.String())
		if err != nil {
			return fmt.Errorf("--price-candidates: %w", err)
		}
		cfg.PriceCandidates = v
	}
	if f := cmd.Flags().Lookup("json"); f != nil {
		if f.Value.String() == "true" {
			cfg.JSONLog = true
		}
	}
	if f := cmd.Flags().Lookup("quiet"); f != nil {
		if f.Value.String() == "true" {
			cfg.Quiet = true
			cfg.LogLevel = "error"
		}
	}
	if f := cmd.Flags().Lookup("verbose"); f != nil {
		if f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
	}
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + name))
}

func envDuration(name string, def time.Duration) (time.Duration, error) {
	v := env(name)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	return d, nil
}

func envFloat(name string, def float64) (float64, error) {
	v := env(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	return f, nil
}

func envInt(name string, def int) (int, error) {
	v := env(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
