package metadata

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// StructuredData holds the first plausible product values found in the page's
// JSON-LD blocks. Nil fields were not present or did not qualify.
type StructuredData struct {
	Price *float64
	Brand *string
	Image *string
}

func (sd StructuredData) complete() bool {
	return sd.Price != nil && sd.Brand != nil && sd.Image != nil
}

// ExtractStructured scans every application/ld+json script in document order
// for schema.org Product objects. Blocks that fail to decode are skipped.
func ExtractStructured(doc *goquery.Document, baseURL string) StructuredData {
	return extractStructured(doc, baseURL, DefaultMaxPrice)
}

func extractStructured(doc *goquery.Document, baseURL string, maxPrice float64) StructuredData {
	var sd StructuredData
	if doc == nil {
		return sd
	}

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		payload, ok := decodeBlock(sel.Text())
		if !ok {
			log.Debug().Int("block", i).Msg("Skipping malformed JSON-LD block")
			return true
		}

		for _, schema := range schemaObjects(payload) {
			if !isProduct(schema) {
				continue
			}
			if sd.Price == nil {
				if v, ok := offerPrice(schema["offers"], maxPrice); ok {
					sd.Price = &v
				}
			}
			if sd.Brand == nil {
				if b, ok := brandName(schema["brand"]); ok {
					sd.Brand = &b
				}
			}
			if sd.Image == nil {
				if img, ok := firstImage(schema["image"], baseURL); ok {
					sd.Image = &img
				}
			}
			if sd.complete() {
				return false
			}
		}
		return true
	})

	return sd
}

// decodeBlock parses one script body in isolation
func decodeBlock(raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	return payload, true
}

// schemaObjects flattens a JSON-LD payload: a top-level array contributes each
// element and a @graph property contributes its entries.
func schemaObjects(payload any) []map[string]any {
	var out []map[string]any
	var visit func(v any)
	visit = func(v any) {
		switch t := v.(type) {
		case []any:
			for _, item := range t {
				visit(item)
			}
		case map[string]any:
			out = append(out, t)
			if graph, ok := t["@graph"]; ok {
				visit(graph)
			}
		}
	}
	visit(payload)
	return out
}

func isProduct(schema map[string]any) bool {
	switch t := schema["@type"].(type) {
	case string:
		return t == "Product"
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// offerPrice reads the first offer's price, falling back to lowPrice when price
// is missing or out of bounds.
func offerPrice(offers any, maxPrice float64) (float64, bool) {
	if list, ok := offers.([]any); ok {
		if len(list) == 0 {
			return 0, false
		}
		offers = list[0]
	}
	offer, ok := offers.(map[string]any)
	if !ok {
		return 0, false
	}
	for _, key := range []string{"price", "lowPrice"} {
		if v, ok := jsonNumber(offer[key]); ok && InPriceBounds(v, maxPrice) {
			return v, true
		}
	}
	return 0, false
}

func jsonNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		return parseMachineNumber(t)
	}
	return 0, false
}

func brandName(brand any) (string, bool) {
	var name string
	switch t := brand.(type) {
	case string:
		name = t
	case map[string]any:
		name, _ = t["name"].(string)
	}
	name = collapseSpace(name)
	if name == "" || len([]rune(name)) > MaxSupplierLength {
		return "", false
	}
	return name, true
}

func firstImage(image any, baseURL string) (string, bool) {
	if list, ok := image.([]any); ok {
		if len(list) == 0 {
			return "", false
		}
		image = list[0]
	}
	var ref string
	switch t := image.(type) {
	case string:
		ref = t
	case map[string]any:
		ref, _ = t["url"].(string)
	}
	return acceptImage(ref, baseURL)
}
