// internal/engine/static/fetcher.go
package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/law-makers/linkfill/internal/cache"
	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/proxy"
	"github.com/law-makers/linkfill/internal/ratelimit"
	"github.com/law-makers/linkfill/internal/retry"
	"github.com/law-makers/linkfill/pkg/models"
)

const (
	DefaultMaxRedirects = 10
	DefaultMaxBodyBytes = 10 * 1024 * 1024
	DefaultCacheTTL     = 5 * time.Minute
)

var errTooManyRedirects = errors.New("stopped after too many redirects")

type redirectLimitKey struct{}

// Fetcher downloads product pages over plain HTTP. It does not run scripts;
// whatever the shop server renders is what the extractor sees.
type Fetcher struct {
	cache        cache.Cache
	limiter      ratelimit.RateLimiter
	client       *http.Client
	proxies      *proxy.ProxyPool
	timeout      time.Duration
	userAgent    string
	retry        retry.Config
	cacheTTL     time.Duration
	maxBodyBytes int64
	maxRedirects int
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithProxyPool rotates requests through the given proxies
func WithProxyPool(p *proxy.ProxyPool) Option {
	return func(f *Fetcher) {
		f.proxies = p
	}
}

// WithRetryConfig replaces the default retry policy
func WithRetryConfig(cfg retry.Config) Option {
	return func(f *Fetcher) {
		f.retry = cfg
	}
}

// WithCacheTTL sets how long fetched documents stay cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(f *Fetcher) {
		if ttl > 0 {
			f.cacheTTL = ttl
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithMaxRedirects sets the default redirect limit
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRedirects = n
		}
	}
}

// New creates a Fetcher. The cache and limiter may be nil. The client is
// copied so the redirect policy doesn't leak into other users of it.
func New(c cache.Cache, lim ratelimit.RateLimiter, client *http.Client, timeout time.Duration, ua string, opts ...Option) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	f := &Fetcher{
		cache:        c,
		limiter:      lim,
		timeout:      timeout,
		userAgent:    ua,
		retry:        retry.DefaultConfig(),
		cacheTTL:     DefaultCacheTTL,
		maxBodyBytes: DefaultMaxBodyBytes,
		maxRedirects: DefaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(f)
	}

	clientCopy := *client
	clientCopy.CheckRedirect = f.checkRedirect
	f.client = &clientCopy

	return f
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch retrieves the HTML of opts.URL
func (f *Fetcher) Fetch(ctx context.Context, opts models.RequestOptions) (*models.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	key := cache.KeyFromURL(opts.URL)
	if f.cache != nil && !opts.NoCache {
		if doc, ok := f.cache.Get(key); ok {
			return doc, nil
		}
	}

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, opts.URL); err != nil {
			return nil, engine.NewEngineError(engine.ErrCodeFetchFailed, "rate limiter wait aborted", err).
				WithDetail("url", opts.URL)
		}
	}

	var doc *models.Document
	err := retry.WithRetry(ctx, f.retry, func(ctx context.Context) error {
		p := f.proxies.GetNext()
		d, err := f.fetchOnce(proxy.WithProxy(ctx, p), opts)
		if err != nil {
			if isTransportError(err) {
				f.proxies.MarkFailed(p)
			}
			return err
		}
		f.proxies.MarkHealthy(p)
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if f.cache != nil && !opts.NoCache {
		if err := f.cache.Set(key, doc, f.cacheTTL); err != nil {
			log.Warn().Err(err).Str("url", opts.URL).Msg("Failed to cache document")
		}
	}

	return doc, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, opts models.RequestOptions) (*models.Document, error) {
	start := time.Now()

	timeout := f.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if opts.MaxRedirects > 0 {
		ctx = context.WithValue(ctx, redirectLimitKey{}, opts.MaxRedirects)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, engine.NewEngineError(engine.ErrCodeInvalidURL, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		ferr := engine.NewFetchError(resp.StatusCode, resp.Status).WithDetail("url", opts.URL)
		if slices.Contains(f.retry.RetryableStatusCodes, resp.StatusCode) {
			ferr.WithRetry()
		}
		return nil, ferr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, classify(ctx, err)
	}

	contentType := resp.Header.Get("Content-Type")
	html := decodeBody(body, contentType)

	doc := &models.Document{
		URL:          opts.URL,
		FinalURL:     resp.Request.URL.String(),
		StatusCode:   resp.StatusCode,
		HTML:         html,
		Headers:      make(map[string]string, len(resp.Header)),
		FetchedAt:    time.Now(),
		ResponseTime: time.Since(start).Milliseconds(),
	}
	for key, values := range resp.Header {
		if len(values) > 0 {
			doc.Headers[key] = values[0]
		}
	}

	log.Debug().
		Str("url", opts.URL).
		Str("final_url", doc.FinalURL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", doc.ResponseTime).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return doc, nil
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	limit := f.maxRedirects
	if n, ok := req.Context().Value(redirectLimitKey{}).(int); ok {
		limit = n
	}
	if len(via) > limit {
		return fmt.Errorf("%w (%d)", errTooManyRedirects, limit)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("refusing redirect to %s URL", req.URL.Scheme)
	}
	return nil
}

// decodeBody converts the body to UTF-8 using the Content-Type header,
// a BOM or a <meta charset> hint, in that order.
func decodeBody(body []byte, contentType string) string {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	// Without any hint only the first KB is sniffed and ASCII falls back to
	// windows-1252, which would garble UTF-8 further down the page.
	if name == "utf-8" || (!certain && name == "windows-1252" && utf8.Valid(body)) {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		log.Debug().Err(err).Str("charset", name).Msg("Charset decoding failed, using raw body")
		return string(body)
	}
	return string(decoded)
}

// classify maps transport failures onto engine errors
func classify(ctx context.Context, err error) error {
	if errors.Is(err, errTooManyRedirects) {
		return engine.NewEngineError(engine.ErrCodeFetchFailed, "too many redirects", err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return engine.NewEngineError(engine.ErrCodeTimeout, "request timed out", err).WithRetry()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return engine.NewEngineError(engine.ErrCodeTimeout, "request timed out", err).WithRetry()
	}
	if errors.Is(err, context.Canceled) {
		return engine.NewEngineError(engine.ErrCodeFetchFailed, "request cancelled", err)
	}
	return engine.NewEngineError(engine.ErrCodeFetchFailed, "request failed", err).WithRetry()
}

func isTransportError(err error) bool {
	var ee *engine.EngineError
	return errors.As(err, &ee) && ee.StatusCode == 0 && ee.Retry
}
