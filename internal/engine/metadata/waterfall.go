package metadata

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/linkfill/internal/utils/url"
)

// Tier is one source of a field value. TryExtract reports false when the tier
// has nothing plausible so the next tier can be consulted.
type Tier[T any] interface {
	TryExtract(doc *goquery.Document) (T, bool)
}

// TierFunc adapts a plain function to Tier
type TierFunc[T any] func(doc *goquery.Document) (T, bool)

// TryExtract calls f
func (f TierFunc[T]) TryExtract(doc *goquery.Document) (T, bool) {
	return f(doc)
}

// FirstOf runs tiers in order and returns the first value found together with
// the index of the tier that produced it. The index is -1 when no tier matched.
func FirstOf[T any](doc *goquery.Document, tiers ...Tier[T]) (T, int) {
	for i, tier := range tiers {
		if v, ok := tier.TryExtract(doc); ok {
			return v, i
		}
	}
	var zero T
	return zero, -1
}

// Field length limits
const (
	MaxTitleLength    = 500
	MaxSupplierLength = 100
)

// imageAttributes lists, in preference order, where lazy-loading galleries keep the real image URL
var imageAttributes = []string{
	"src",
	"data-src",
	"data-lazy-src",
	"data-original",
	"data-zoom-image",
	"data-large",
}

var rejectedImageMarkers = []string{"placeholder", "loading"}

// TextWaterfall returns the first non-empty text of at most maxLen runes read
// from the first element matched by each strategy in turn.
func TextWaterfall(strategies []Strategy, maxLen int) Tier[string] {
	return TierFunc[string](func(doc *goquery.Document) (string, bool) {
		for _, s := range strategies {
			sel := s.find(doc).First()
			if sel.Length() == 0 {
				continue
			}
			text := readText(sel, s.Attr)
			if n := utf8.RuneCountInString(text); n > 0 && n <= maxLen {
				return text, true
			}
		}
		return "", false
	})
}

// PriceWaterfall examines up to candidates elements per strategy and returns the
// first normalized price inside (0, maxPrice).
func PriceWaterfall(strategies []Strategy, candidates int, maxPrice float64) Tier[float64] {
	return TierFunc[float64](func(doc *goquery.Document) (float64, bool) {
		for _, s := range strategies {
			var (
				price float64
				found bool
			)
			s.find(doc).EachWithBreak(func(i int, sel *goquery.Selection) bool {
				if i >= candidates {
					return false
				}
				for _, raw := range priceTexts(sel, s.Attr) {
					if v, ok := NormalizePrice(raw); ok && InPriceBounds(v, maxPrice) {
						price, found = v, true
						return false
					}
				}
				return true
			})
			if found {
				return price, true
			}
		}
		return 0, false
	})
}

// ImageWaterfall resolves the image reference of the first element matched by
// each strategy and returns the first acceptable absolute URL.
func ImageWaterfall(strategies []Strategy, baseURL string) Tier[string] {
	return TierFunc[string](func(doc *goquery.Document) (string, bool) {
		for _, s := range strategies {
			sel := s.find(doc).First()
			if sel.Length() == 0 {
				continue
			}
			if resolved, ok := acceptImage(imageReference(sel, s.Attr), baseURL); ok {
				return resolved, true
			}
		}
		return "", false
	})
}

func readText(sel *goquery.Selection, attr string) string {
	if attr != "" {
		v, _ := sel.Attr(attr)
		return collapseSpace(v)
	}
	if goquery.NodeName(sel) == "meta" {
		v, _ := sel.Attr("content")
		return collapseSpace(v)
	}
	return collapseSpace(sel.Text())
}

// priceTexts lists the raw values to try for one price element, most specific first
func priceTexts(sel *goquery.Selection, attr string) []string {
	var out []string
	if attr != "" {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
		out = append(out, v)
	}
	if text := strings.TrimSpace(sel.Text()); text != "" {
		out = append(out, text)
	}
	return out
}

func imageReference(sel *goquery.Selection, attr string) string {
	if attr != "" {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return v
		}
		return ""
	}
	for _, name := range imageAttributes {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	if srcset, ok := sel.Attr("srcset"); ok {
		return firstSrcsetURL(srcset)
	}
	return ""
}

// firstSrcsetURL returns the URL of the first candidate in a srcset list
func firstSrcsetURL(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// acceptImage resolves ref against baseURL and applies the image validity rules
func acceptImage(ref, baseURL string) (string, bool) {
	resolved, ok := urlutil.Resolve(ref, baseURL)
	if !ok || !urlutil.IsAbsoluteHTTP(resolved) {
		return "", false
	}
	lower := strings.ToLower(resolved)
	for _, marker := range rejectedImageMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}
	return resolved, true
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
