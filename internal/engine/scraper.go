package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/linkfill/internal/engine/metadata"
	urlutil "github.com/law-makers/linkfill/internal/utils/url"
	"github.com/law-makers/linkfill/pkg/models"
)

// ProductScraper validates a product URL, fetches the page and extracts the
// catalog record from it. Only InvalidURL and FetchFailed errors are returned.
type ProductScraper struct {
	fetcher   Fetcher
	extractor *metadata.Extractor
}

// NewProductScraper creates a ProductScraper
func NewProductScraper(fetcher Fetcher, extractor *metadata.Extractor) *ProductScraper {
	if extractor == nil {
		extractor = metadata.New()
	}
	return &ProductScraper{
		fetcher:   fetcher,
		extractor: extractor,
	}
}

// Name returns the name of this scraper
func (s *ProductScraper) Name() string {
	return "ProductScraper"
}

// Scrape fetches opts.URL and extracts its product data
func (s *ProductScraper) Scrape(ctx context.Context, opts models.RequestOptions) (*models.ScrapedProductData, error) {
	if err := urlutil.ValidateURL(opts.URL); err != nil {
		return nil, NewEngineError(ErrCodeInvalidURL, "cannot scrape this URL", err).
			WithDetail("url", opts.URL)
	}

	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx, opts)
	if err != nil {
		return nil, asFetchError(err, opts.URL)
	}

	data := s.extractor.ExtractHTML(doc.HTML, opts.URL)

	log.Debug().
		Str("url", opts.URL).
		Str("fetcher", s.fetcher.Name()).
		Int("status", doc.StatusCode).
		Dur("elapsed", time.Since(start)).
		Bool("title", data.Title != nil).
		Bool("price", data.Price != nil).
		Bool("image", data.ImageURL != nil).
		Msg("Product scraped")

	return data, nil
}

// asFetchError turns any fetcher failure into an EngineError. Timeouts become
// FetchFailed errors that still match ErrTimeout.
func asFetchError(err error, url string) error {
	var ee *EngineError
	if errors.As(err, &ee) {
		if ee.Code == ErrCodeTimeout {
			return NewEngineError(ErrCodeFetchFailed, "timed out fetching page", ee).WithDetail("url", url)
		}
		return ee
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewEngineError(ErrCodeFetchFailed, "timed out fetching page", err).WithDetail("url", url)
	}
	return NewEngineError(ErrCodeFetchFailed, "failed to fetch page", err).WithDetail("url", url)
}

// Respond builds the caller-facing envelope for a scrape outcome
func Respond(data *models.ScrapedProductData, err error) models.ScrapeResponse {
	if err != nil {
		return models.ScrapeResponse{
			Success: false,
			Error:   err.Error(),
			Code:    string(CodeOf(err)),
		}
	}
	return models.ScrapeResponse{Success: true, Data: data}
}
