// Package metadata extracts catalog product fields (title, price, image,
// supplier) from a fetched product page.
//
// Every field is resolved through an ordered chain of tiers: embedded JSON-LD,
// meta tags, then a selector waterfall. A tier that finds nothing plausible
// yields to the next one; no anomaly in the page aborts the extraction.
package metadata

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/law-makers/linkfill/pkg/models"
)

// Defaults for the price sanity checks
const (
	DefaultMaxPrice        = 10_000_000
	DefaultPriceCandidates = 3
)

// Extractor turns a parsed product page into a ScrapedProductData record.
// It holds only immutable configuration and is safe for concurrent use.
type Extractor struct {
	maxPrice        float64
	priceCandidates int
	strategies      Strategies
}

// Option configures an Extractor
type Option func(*Extractor)

// WithMaxPrice sets the exclusive upper bound for accepted prices
func WithMaxPrice(max float64) Option {
	return func(e *Extractor) {
		if max > 0 {
			e.maxPrice = max
		}
	}
}

// WithPriceCandidates sets how many matched elements per price selector are examined
func WithPriceCandidates(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.priceCandidates = n
		}
	}
}

// WithStrategies replaces the selector tables
func WithStrategies(s Strategies) Option {
	return func(e *Extractor) {
		e.strategies = s
	}
}

// New creates an Extractor with the built-in selector tables
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxPrice:        DefaultMaxPrice,
		priceCandidates: DefaultPriceCandidates,
		strategies:      DefaultStrategies(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractHTML parses html and extracts the product record for pageURL
func (e *Extractor) ExtractHTML(html, pageURL string) *models.ScrapedProductData {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Debug().Err(err).Str("url", pageURL).Msg("Failed to parse HTML, returning empty record")
		return &models.ScrapedProductData{URL: pageURL}
	}
	return e.Extract(doc, pageURL)
}

// Extract resolves every field of the product record. Fields without a
// plausible value stay nil; the call itself cannot fail.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) *models.ScrapedProductData {
	data := &models.ScrapedProductData{URL: pageURL}
	if doc == nil {
		return data
	}

	sd := extractStructured(doc, pageURL, e.maxPrice)

	title, titleTier := FirstOf[string](doc,
		TextWaterfall(e.strategies.Title, MaxTitleLength),
	)

	price, priceTier := FirstOf[float64](doc,
		TierFunc[float64](func(*goquery.Document) (float64, bool) {
			if sd.Price == nil {
				return 0, false
			}
			return *sd.Price, true
		}),
		PriceWaterfall(e.strategies.MetaPrice, e.priceCandidates, e.maxPrice),
		PriceWaterfall(e.strategies.Price, e.priceCandidates, e.maxPrice),
	)

	image, imageTier := FirstOf[string](doc,
		TierFunc[string](func(*goquery.Document) (string, bool) {
			if sd.Image == nil {
				return "", false
			}
			return *sd.Image, true
		}),
		ImageWaterfall(e.strategies.MetaImage, pageURL),
		ImageWaterfall(e.strategies.Image, pageURL),
	)

	supplier, supplierTier := resolveSupplier(doc, pageURL, sd, e.strategies.Brand)

	if titleTier >= 0 {
		data.Title = &title
	}
	if priceTier >= 0 {
		data.Price = &price
	}
	if imageTier >= 0 {
		data.ImageURL = &image
	}
	if supplier != "" {
		data.Supplier = &supplier
	}

	log.Debug().
		Str("url", pageURL).
		Str("title_tier", tierName(titleTier, "selector")).
		Str("price_tier", tierName(priceTier, "jsonld", "meta", "selector")).
		Str("image_tier", tierName(imageTier, "jsonld", "meta", "selector")).
		Str("supplier_tier", supplierTier).
		Msg("Extraction completed")

	return data
}

func tierName(idx int, names ...string) string {
	if idx < 0 || idx >= len(names) {
		return "none"
	}
	return names[idx]
}
