package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
)

func TestFirstOf(t *testing.T) {
	t.Parallel()

	calls := 0
	miss := TierFunc[int](func(*goquery.Document) (int, bool) { calls++; return 0, false })
	hit := TierFunc[int](func(*goquery.Document) (int, bool) { calls++; return 7, true })
	never := TierFunc[int](func(*goquery.Document) (int, bool) {
		t.Fatal("tier after a hit must not run")
		return 0, false
	})

	v, idx := FirstOf[int](nil, miss, hit, never)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, calls)

	v, idx = FirstOf[int](nil, miss)
	assert.Equal(t, 0, v)
	assert.Equal(t, -1, idx)
}

func TestTextWaterfall(t *testing.T) {
	t.Parallel()

	t.Run("prefers meta content and stops at first hit", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<head><meta property="og:title" content="  Stolik   Tarse "></head><body><h1>Other</h1></body>`)
		strategies := []Strategy{
			NewStrategy(`meta[property="og:title"]`, ""),
			NewStrategy(`h1`, ""),
		}

		got, ok := TextWaterfall(strategies, MaxTitleLength).TryExtract(doc)
		assert.True(t, ok)
		assert.Equal(t, "Stolik Tarse", got)
	})

	t.Run("skips empty and overlong values", func(t *testing.T) {
		t.Parallel()
		long := strings.Repeat("x", MaxTitleLength+1)
		doc := parseDoc(t, `<div class="empty">  </div><div class="long">`+long+`</div><h1>Sofa
			Oslo</h1>`)
		strategies := []Strategy{
			NewStrategy(`.missing`, ""),
			NewStrategy(`.empty`, ""),
			NewStrategy(`.long`, ""),
			NewStrategy(`h1`, ""),
		}

		got, ok := TextWaterfall(strategies, MaxTitleLength).TryExtract(doc)
		assert.True(t, ok)
		assert.Equal(t, "Sofa Oslo", got)
	})

	t.Run("only the first matching element is read", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<span class="brand"></span><span class="brand">Acme</span>`)

		_, ok := TextWaterfall([]Strategy{NewStrategy(`.brand`, "")}, MaxSupplierLength).TryExtract(doc)
		assert.False(t, ok)
	})

	t.Run("explicit attribute", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<div data-brand="Vox">ignored</div>`)

		got, ok := TextWaterfall([]Strategy{NewStrategy(`[data-brand]`, "data-brand")}, MaxSupplierLength).TryExtract(doc)
		assert.True(t, ok)
		assert.Equal(t, "Vox", got)
	})
}

func TestPriceWaterfall(t *testing.T) {
	t.Parallel()

	t.Run("rejects values above the bound and continues", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<span class="sku">15,000,000</span><span class="price">489,00 zł</span>`)
		strategies := []Strategy{
			NewStrategy(`.sku`, ""),
			NewStrategy(`.price`, ""),
		}

		got, ok := PriceWaterfall(strategies, DefaultPriceCandidates, DefaultMaxPrice).TryExtract(doc)
		assert.True(t, ok)
		assert.InDelta(t, 489.0, got, 1e-9)
	})

	t.Run("out of bounds everywhere yields nothing", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<span class="price">15,000,000</span>`)

		_, ok := PriceWaterfall([]Strategy{NewStrategy(`.price`, "")}, DefaultPriceCandidates, DefaultMaxPrice).TryExtract(doc)
		assert.False(t, ok)
	})

	t.Run("examines only the first candidates per selector", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<i class="p">-</i><i class="p">n/a</i><i class="p">?</i><i class="p">59,99</i>`)
		strategies := []Strategy{NewStrategy(`.p`, "")}

		_, ok := PriceWaterfall(strategies, 3, DefaultMaxPrice).TryExtract(doc)
		assert.False(t, ok)

		got, ok := PriceWaterfall(strategies, 4, DefaultMaxPrice).TryExtract(doc)
		assert.True(t, ok)
		assert.InDelta(t, 59.99, got, 1e-9)
	})

	t.Run("content attribute before text", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<span itemprop="price" content="1299.00">1 299,00 zł brutto (od 999)</span>`)

		got, ok := PriceWaterfall([]Strategy{NewStrategy(`[itemprop="price"]`, "")}, 3, DefaultMaxPrice).TryExtract(doc)
		assert.True(t, ok)
		assert.InDelta(t, 1299.0, got, 1e-9)
	})

	t.Run("custom bound", func(t *testing.T) {
		t.Parallel()
		doc := parseDoc(t, `<span class="price">250,00</span>`)

		_, ok := PriceWaterfall([]Strategy{NewStrategy(`.price`, "")}, 3, 100).TryExtract(doc)
		assert.False(t, ok)
	})
}

func TestImageWaterfall(t *testing.T) {
	t.Parallel()

	base := "https://shop.example/p/stolik"

	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "lazy attribute resolved against origin",
			html: `<div class="product-gallery"><img data-src="/media/a.jpg"></div>`,
			want: "https://shop.example/media/a.jpg",
			ok:   true,
		},
		{
			name: "src wins over data attributes",
			html: `<div class="product-gallery"><img src="//cdn.example/s.jpg" data-src="/media/a.jpg"></div>`,
			want: "https://cdn.example/s.jpg",
			ok:   true,
		},
		{
			name: "first srcset candidate",
			html: `<div class="product-gallery"><img srcset="img/small.jpg 480w, img/big.jpg 1080w"></div>`,
			want: "https://shop.example/p/img/small.jpg",
			ok:   true,
		},
		{
			name: "placeholder rejected and next selector used",
			html: `<div class="product-gallery"><img src="/static/placeholder.svg"></div><main><img src="/media/real.jpg"></main>`,
			want: "https://shop.example/media/real.jpg",
			ok:   true,
		},
		{
			name: "loading gif rejected",
			html: `<div class="product-gallery"><img src="/img/Loading.gif"></div>`,
			ok:   false,
		},
		{
			name: "no image attributes",
			html: `<div class="product-gallery"><img alt="x"></div>`,
			ok:   false,
		},
	}

	strategies := []Strategy{
		NewStrategy(`.product-gallery img`, ""),
		NewStrategy(`main img`, ""),
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ImageWaterfall(strategies, base).TryExtract(parseDoc(t, tt.html))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirstSrcsetURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.jpg", firstSrcsetURL(" a.jpg 1x, b.jpg 2x"))
	assert.Equal(t, "a.jpg", firstSrcsetURL("a.jpg"))
	assert.Equal(t, "", firstSrcsetURL(" "))
}

func TestDefaultStrategiesAreCopies(t *testing.T) {
	t.Parallel()

	s := DefaultStrategies()
	s.Title[0] = NewStrategy(`.changed`, "")

	assert.Equal(t, `h1[itemprop="name"]`, DefaultStrategies().Title[0].Selector)
}
