package config

import "fmt"

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.MaxPrice <= 0 {
		return fmt.Errorf("max price must be > 0")
	}
	if c.PriceCandidates <= 0 {
		return fmt.Errorf("price candidates must be > 0")
	}
	if c.RetryAttempts <= 0 {
		return fmt.Errorf("retry attempts must be > 0")
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max redirects must be >= 0")
	}
	if c.Concurrency < 0 || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 0 (auto) and %d", MaxConcurrency)
	}
	if c.RateLimitRPS <= 0 || c.APIRateLimit <= 0 {
		return fmt.Errorf("rate limits must be > 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
