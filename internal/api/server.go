// Package api exposes product extraction over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/internal/engine/metadata"
	"github.com/law-makers/linkfill/internal/reqctx"
)

const (
	DefaultRateLimit      = 5.0
	DefaultMaxBodyBytes   = 5 * 1024 * 1024
	DefaultRequestTimeout = 30 * time.Second
)

// Options configures the HTTP API
type Options struct {
	// RateLimit is the number of requests per second allowed per client IP
	RateLimit float64
	// CORSOrigins lists allowed browser origins; "*" allows any
	CORSOrigins []string
	// MaxBodyBytes caps request bodies, which for /extract carry whole pages
	MaxBodyBytes int64
	// RequestTimeout bounds a single scrape, fetch retries included
	RequestTimeout time.Duration
}

// Server serves the scrape and extract endpoints
type Server struct {
	scraper   engine.Scraper
	extractor *metadata.Extractor
	opts      Options
	started   time.Time
	handler   http.Handler
}

// New builds a Server. A nil extractor falls back to metadata.New().
func New(scraper engine.Scraper, extractor *metadata.Extractor, opts Options) *Server {
	if extractor == nil {
		extractor = metadata.New()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = DefaultRateLimit
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	s := &Server{
		scraper:   scraper,
		extractor: extractor,
		opts:      opts,
		started:   time.Now(),
	}
	s.handler = s.buildHandler()
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) buildHandler() http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	// Subrouters do not inherit the root's fallback handlers
	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.NotFoundHandler = r.NotFoundHandler
	apiV1.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	apiV1.HandleFunc("/scrape", s.scrape).Methods(http.MethodPost)
	apiV1.HandleFunc("/extract", s.extract).Methods(http.MethodPost)

	lmt := tollbooth.NewLimiter(s.opts.RateLimit, nil)
	lmt.SetOnLimitReached(s.rateLimited)
	lmt.SetOverrideDefaultResponseWriter(true)

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept-Language", reqctx.HeaderRequestID},
		ExposedHeaders: []string{reqctx.HeaderRequestID},
	})

	// Outermost first: request ID, access log, CORS, rate limit, routes
	var h http.Handler = r
	h = tollbooth.LimitHandler(lmt, h)
	h = c.Handler(h)
	h = accessLog(h)
	h = reqctx.Middleware(h)
	return h
}
