package metadata

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	urlutil "github.com/law-makers/linkfill/internal/utils/url"
)

// ResolveSupplier names the product's brand or seller using the JSON-LD brand,
// then the brand selector table, then the shop's domain name.
func ResolveSupplier(doc *goquery.Document, baseURL string) (string, bool) {
	sd := ExtractStructured(doc, baseURL)
	v, _ := resolveSupplier(doc, baseURL, sd, brandStrategies)
	return v, v != ""
}

// resolveSupplier returns the supplier and the name of the tier that produced it
func resolveSupplier(doc *goquery.Document, baseURL string, sd StructuredData, brands []Strategy) (string, string) {
	tiers := []Tier[string]{
		TierFunc[string](func(*goquery.Document) (string, bool) {
			if sd.Brand == nil {
				return "", false
			}
			return *sd.Brand, true
		}),
		TextWaterfall(brands, MaxSupplierLength),
		TierFunc[string](func(*goquery.Document) (string, bool) {
			return SupplierFromDomain(baseURL)
		}),
	}
	v, idx := FirstOf(doc, tiers...)
	return v, supplierTierNames[idx+1]
}

var supplierTierNames = []string{"none", "jsonld", "selector", "domain"}

// SupplierFromDomain derives a display name from the page host:
// www.ikea.com -> Ikea, www.westwing.pl -> Westwing.
func SupplierFromDomain(pageURL string) (string, bool) {
	host := strings.TrimPrefix(urlutil.Hostname(pageURL), "www.")
	if host == "" {
		return "", false
	}

	labels := strings.Split(host, ".")
	name := labels[0]
	if len(labels) >= 2 {
		name = labels[len(labels)-2]
	}
	if name == "" {
		return "", false
	}

	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:], true
}
