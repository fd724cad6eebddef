package engine

import (
	"context"

	"github.com/law-makers/linkfill/pkg/models"
)

// Fetcher retrieves the raw HTML of a page. Non-2xx responses and network
// failures are reported as errors, never as empty documents.
type Fetcher interface {
	// Fetch downloads the page described by opts
	Fetch(ctx context.Context, opts models.RequestOptions) (*models.Document, error)

	// Name returns the name of the fetcher implementation
	Name() string
}

// Scraper turns a product page URL into a catalog record
type Scraper interface {
	Scrape(ctx context.Context, opts models.RequestOptions) (*models.ScrapedProductData, error)
}
