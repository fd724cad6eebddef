package metadata

import (
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Strategy is one entry of a per-field selector table: which elements to match
// and which attribute to read from them. An empty Attr means the field's default
// read policy applies.
type Strategy struct {
	Selector string
	Attr     string

	matcher goquery.Matcher
}

// NewStrategy compiles selector once so lookups don't re-parse it per document.
// It panics on an invalid selector; tables are static configuration.
func NewStrategy(selector, attr string) Strategy {
	return Strategy{
		Selector: selector,
		Attr:     attr,
		matcher:  cascadia.MustCompile(selector),
	}
}

func (s Strategy) find(doc *goquery.Document) *goquery.Selection {
	if s.matcher == nil {
		return doc.Find(s.Selector)
	}
	return doc.FindMatcher(s.matcher)
}

// Strategies holds the ordered selector tables for every extracted field.
// Order within a table is priority order: microdata first, retailer-specific
// selectors next, generic class names after that, and the most generic
// fallbacks last.
type Strategies struct {
	Title     []Strategy
	MetaPrice []Strategy
	Price     []Strategy
	MetaImage []Strategy
	Image     []Strategy
	Brand     []Strategy
}

var (
	titleStrategies = []Strategy{
		NewStrategy(`h1[itemprop="name"]`, ""),
		NewStrategy(`[itemtype*="schema.org/Product"] [itemprop="name"]`, ""),
		NewStrategy(`#productTitle`, ""),
		NewStrategy(`[data-testid="product-title"]`, ""),
		NewStrategy(`[data-test="product-title"]`, ""),
		NewStrategy(`h1.product-title`, ""),
		NewStrategy(`h1.product-name`, ""),
		NewStrategy(`h1.product__title`, ""),
		NewStrategy(`.product-title`, ""),
		NewStrategy(`.product-name`, ""),
		NewStrategy(`.product_title`, ""),
		NewStrategy(`.pdp-title`, ""),
		NewStrategy(`meta[property="og:title"]`, "content"),
		NewStrategy(`meta[name="twitter:title"]`, "content"),
		NewStrategy(`h1`, ""),
		NewStrategy(`title`, ""),
	}

	metaPriceStrategies = []Strategy{
		NewStrategy(`meta[property="product:price:amount"]`, "content"),
		NewStrategy(`meta[property="og:price:amount"]`, "content"),
		NewStrategy(`meta[itemprop="price"]`, "content"),
		NewStrategy(`meta[name="twitter:data1"]`, "content"),
	}

	priceStrategies = []Strategy{
		NewStrategy(`[itemprop="price"]`, ""),
		NewStrategy(`[itemprop="lowPrice"]`, ""),
		NewStrategy(`.a-price .a-offscreen`, ""),
		NewStrategy(`#priceblock_ourprice`, ""),
		NewStrategy(`#priceblock_dealprice`, ""),
		NewStrategy(`[data-testid="product-price"]`, ""),
		NewStrategy(`[data-test="product-price"]`, ""),
		NewStrategy(`[data-price]`, "data-price"),
		NewStrategy(`.product-price__value`, ""),
		NewStrategy(`.price-box .price`, ""),
		NewStrategy(`.product-price`, ""),
		NewStrategy(`.product__price`, ""),
		NewStrategy(`.current-price`, ""),
		NewStrategy(`.price-current`, ""),
		NewStrategy(`.sale-price`, ""),
		NewStrategy(`.price`, ""),
		NewStrategy(`[class*="price"]`, ""),
	}

	metaImageStrategies = []Strategy{
		NewStrategy(`meta[property="og:image"]`, "content"),
		NewStrategy(`meta[property="og:image:secure_url"]`, "content"),
		NewStrategy(`meta[name="twitter:image"]`, "content"),
		NewStrategy(`meta[name="twitter:image:src"]`, "content"),
		NewStrategy(`link[rel="image_src"]`, "href"),
	}

	imageStrategies = []Strategy{
		NewStrategy(`img[itemprop="image"]`, ""),
		NewStrategy(`meta[itemprop="image"]`, "content"),
		NewStrategy(`link[itemprop="image"]`, "href"),
		NewStrategy(`#landingImage`, "data-old-hires"),
		NewStrategy(`#landingImage`, ""),
		NewStrategy(`#imgBlkFront`, ""),
		NewStrategy(`[data-testid="product-image"] img`, ""),
		NewStrategy(`.product-gallery img`, ""),
		NewStrategy(`.product-image img`, ""),
		NewStrategy(`.product__media img`, ""),
		NewStrategy(`.gallery img`, ""),
		NewStrategy(`img.product-image`, ""),
		NewStrategy(`main img`, ""),
	}

	brandStrategies = []Strategy{
		NewStrategy(`[itemprop="brand"] [itemprop="name"]`, ""),
		NewStrategy(`meta[itemprop="brand"]`, "content"),
		NewStrategy(`[itemprop="brand"]`, ""),
		NewStrategy(`meta[property="product:brand"]`, "content"),
		NewStrategy(`meta[property="og:brand"]`, "content"),
		NewStrategy(`#bylineInfo`, ""),
		NewStrategy(`[data-testid="product-brand"]`, ""),
		NewStrategy(`.product-brand`, ""),
		NewStrategy(`.brand`, ""),
		NewStrategy(`.manufacturer`, ""),
	}
)

// DefaultStrategies returns a copy of the built-in selector tables. Callers may
// reorder or extend the copy and pass it to WithStrategies.
func DefaultStrategies() Strategies {
	return Strategies{
		Title:     slices.Clone(titleStrategies),
		MetaPrice: slices.Clone(metaPriceStrategies),
		Price:     slices.Clone(priceStrategies),
		MetaImage: slices.Clone(metaImageStrategies),
		Image:     slices.Clone(imageStrategies),
		Brand:     slices.Clone(brandStrategies),
	}
}
