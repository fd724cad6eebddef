package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func ldScript(body string) string {
	return `<script type="application/ld+json">` + body + `</script>`
}

func TestExtractStructured(t *testing.T) {
	t.Parallel()

	t.Run("reads price brand and image from a product", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, ldScript(`{"@type":"Product","offers":{"price":"129.99"},"brand":"IKEA","image":"https://img/a.jpg"}`))

		sd := ExtractStructured(doc, "https://shop.example/p/1")

		require.NotNil(t, sd.Price)
		assert.InDelta(t, 129.99, *sd.Price, 1e-9)
		require.NotNil(t, sd.Brand)
		assert.Equal(t, "IKEA", *sd.Brand)
		require.NotNil(t, sd.Image)
		assert.Equal(t, "https://img/a.jpg", *sd.Image)
	})

	t.Run("skips malformed block and uses the next one", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t,
			ldScript(`{"@type":"Product","offers":{"price":"1.00"`)+
				ldScript(`{"@type":"Product","offers":{"price":49.5},"brand":{"@type":"Brand","name":"Tarse"}}`))

		sd := ExtractStructured(doc, "https://shop.example/p/1")

		require.NotNil(t, sd.Price)
		assert.InDelta(t, 49.5, *sd.Price, 1e-9)
		require.NotNil(t, sd.Brand)
		assert.Equal(t, "Tarse", *sd.Brand)
		assert.Nil(t, sd.Image)
	})

	t.Run("walks top level arrays and graphs", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, ldScript(`[
			{"@type":"BreadcrumbList"},
			{"@context":"https://schema.org","@graph":[
				{"@type":"WebPage","name":"Page"},
				{"@type":["Product","IndividualProduct"],"offers":[{"lowPrice":"89.90"},{"price":"1"}],
				 "image":[{"url":"/media/chair.jpg"},"https://cdn.example/other.jpg"]}
			]}
		]`))

		sd := ExtractStructured(doc, "https://shop.example/p/1")

		require.NotNil(t, sd.Price)
		assert.InDelta(t, 89.9, *sd.Price, 1e-9)
		require.NotNil(t, sd.Image)
		assert.Equal(t, "https://shop.example/media/chair.jpg", *sd.Image)
		assert.Nil(t, sd.Brand)
	})

	t.Run("ignores non product types", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, ldScript(`{"@type":"Organization","brand":"Acme","offers":{"price":"10"}}`))

		sd := ExtractStructured(doc, "https://shop.example/")

		assert.Nil(t, sd.Price)
		assert.Nil(t, sd.Brand)
		assert.Nil(t, sd.Image)
	})

	t.Run("first match wins across blocks", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t,
			ldScript(`{"@type":"Product","offers":{"price":"10.00"}}`)+
				ldScript(`{"@type":"Product","offers":{"price":"20.00"},"brand":"Second"}`))

		sd := ExtractStructured(doc, "https://shop.example/")

		require.NotNil(t, sd.Price)
		assert.InDelta(t, 10.0, *sd.Price, 1e-9)
		require.NotNil(t, sd.Brand)
		assert.Equal(t, "Second", *sd.Brand)
	})

	t.Run("rejects out of bounds price and placeholder image", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t,
			ldScript(`{"@type":"Product","offers":{"price":"15000000"},"image":"https://cdn.example/placeholder.png"}`)+
				ldScript(`{"@type":"Product","offers":{"price":"0"},"image":"https://cdn.example/real.jpg"}`))

		sd := ExtractStructured(doc, "https://shop.example/")

		assert.Nil(t, sd.Price)
		require.NotNil(t, sd.Image)
		assert.Equal(t, "https://cdn.example/real.jpg", *sd.Image)
	})

	t.Run("unusable price falls back to lowPrice", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, ldScript(`{"@type":"Product","offers":[{"@type":"AggregateOffer","price":0,"lowPrice":"49.90"}]}`))

		sd := ExtractStructured(doc, "https://shop.example/")

		require.NotNil(t, sd.Price)
		assert.InDelta(t, 49.90, *sd.Price, 1e-9)
	})

	t.Run("empty and whitespace blocks are ignored", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, ldScript(``)+ldScript("  \n "))

		sd := ExtractStructured(doc, "https://shop.example/")

		assert.Equal(t, StructuredData{}, sd)
	})
}

func TestSchemaObjects(t *testing.T) {
	t.Parallel()

	payload, ok := decodeBlock(`{"@graph":[{"@type":"Product"},[{"@type":"Offer"}]]}`)
	require.True(t, ok)

	objs := schemaObjects(payload)
	assert.Len(t, objs, 3)

	_, ok = decodeBlock(`{not json`)
	assert.False(t, ok)
}
