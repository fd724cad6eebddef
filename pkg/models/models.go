package models

import "time"

// ScrapedProductData is the catalog record extracted from a single product page.
// Nil fields mean no extraction tier produced a plausible value.
type ScrapedProductData struct {
	Title       *string  `json:"title"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"imageUrl"`
	Supplier    *string  `json:"supplier"`
	Description *string  `json:"description"`
	URL         string   `json:"url"`
}

// Document is a fetched page handed from the fetcher to the extractor
type Document struct {
	URL          string            `json:"url"`
	FinalURL     string            `json:"final_url"`
	StatusCode   int               `json:"status_code"`
	HTML         string            `json:"-"`
	Headers      map[string]string `json:"headers,omitempty"`
	FetchedAt    time.Time         `json:"fetched_at"`
	ResponseTime int64             `json:"response_time_ms"`
}

// RequestOptions contains options for fetching a product page
type RequestOptions struct {
	URL          string
	Headers      map[string]string
	Timeout      time.Duration
	MaxRedirects int
	NoCache      bool
}

// ScrapeResponse is the envelope returned to callers of the scrape operation
type ScrapeResponse struct {
	Success bool                `json:"success"`
	Data    *ScrapedProductData `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Code    string              `json:"code,omitempty"`
}

// ScrapeResult is the outcome of one URL in a batch run
type ScrapeResult struct {
	URL   string
	Data  *ScrapedProductData
	Error error
}
