// internal/engine/batch/scraper.go
package batch

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/linkfill/internal/engine"
	"github.com/law-makers/linkfill/pkg/models"
)

// Scraper runs a product scraper over many URLs with bounded concurrency
type Scraper struct {
	scraper     engine.Scraper
	concurrency int
}

// New creates a new batch Scraper.
// If concurrency <= 0, it auto-tunes based on the CPU count.
func New(scraper engine.Scraper, concurrency int) *Scraper {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency()
	}
	return &Scraper{
		scraper:     scraper,
		concurrency: concurrency,
	}
}

// Concurrency returns the number of parallel workers
func (s *Scraper) Concurrency() int {
	return s.concurrency
}

// ScrapeBatch scrapes every request and streams one result per dispatched
// request. Dispatch stops when ctx is cancelled; the channel is closed once
// all in-flight scrapes finish.
func (s *Scraper) ScrapeBatch(ctx context.Context, requests []models.RequestOptions) <-chan models.ScrapeResult {
	results := make(chan models.ScrapeResult, len(requests))
	ordered := Interleave(requests)

	go func() {
		var wg sync.WaitGroup
		sem := make(chan struct{}, s.concurrency)

		defer func() {
			wg.Wait()
			close(results)
		}()

		for i, req := range ordered {
			if ctx.Err() != nil {
				logCancelled(i, len(ordered))
				return
			}
			select {
			case <-ctx.Done():
				logCancelled(i, len(ordered))
				return
			case sem <- struct{}{}:
			}

			wg.Add(1)
			go func(r models.RequestOptions) {
				defer wg.Done()
				defer func() { <-sem }()

				data, err := s.scraper.Scrape(ctx, r)
				results <- models.ScrapeResult{
					URL:   r.URL,
					Data:  data,
					Error: err,
				}
			}(req)
		}
	}()

	return results
}

func logCancelled(dispatched, total int) {
	log.Debug().
		Int("dispatched", dispatched).
		Int("total", total).
		Msg("Batch cancelled")
}
