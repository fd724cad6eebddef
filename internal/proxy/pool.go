package proxy

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// failureCooldown is how long a failed proxy is skipped by GetNext
const failureCooldown = 5 * time.Minute

// ProxyPool manages a list of proxies with rotation and health checking
type ProxyPool struct {
	proxies []string
	index   int
	mu      sync.Mutex
	failed  map[string]time.Time
}

// NewProxyPool creates a new ProxyPool. Unparsable entries are dropped.
func NewProxyPool(proxies []string) *ProxyPool {
	valid := make([]string, 0, len(proxies))
	for _, p := range proxies {
		if u, err := url.Parse(p); err != nil || u.Host == "" {
			log.Warn().Str("proxy", p).Msg("Ignoring invalid proxy URL")
			continue
		}
		valid = append(valid, p)
	}
	return &ProxyPool{
		proxies: valid,
		failed:  make(map[string]time.Time),
	}
}

// Len returns the number of usable proxies in the pool
func (p *ProxyPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.proxies)
}

// GetNext returns the next healthy proxy from the pool
func (p *ProxyPool) GetNext() string {
	if p == nil {
		return ""
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	start := p.index
	for {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		if failTime, ok := p.failed[proxy]; ok {
			if time.Since(failTime) < failureCooldown {
				if p.index == start {
					// Every proxy failed recently; keep rotating rather than stall
					return proxy
				}
				continue
			}
			delete(p.failed, proxy)
		}

		return proxy
	}
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *ProxyPool) MarkFailed(proxy string) {
	if p == nil || proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = time.Now()
}

// MarkHealthy clears the failure status of a proxy
func (p *ProxyPool) MarkHealthy(proxy string) {
	if p == nil || proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}

type ctxKey struct{}

// WithProxy attaches the proxy to use for requests made with ctx
func WithProxy(ctx context.Context, proxy string) context.Context {
	if proxy == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, proxy)
}

// FromContext returns the proxy attached by WithProxy
func FromContext(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(ctxKey{}).(string)
	return p, ok && p != ""
}

// FromRequest is an http.Transport Proxy func. It routes through the proxy
// carried by the request context and falls back to the environment.
func FromRequest(req *http.Request) (*url.URL, error) {
	if p, ok := FromContext(req.Context()); ok {
		return url.Parse(p)
	}
	return http.ProxyFromEnvironment(req)
}
