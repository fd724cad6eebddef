package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1 234,56 zł", 1234.56, true},
		{"$1,234.56", 1234.56, true},
		{"2990", 2990, true},
		{"", 0, false},
		{"489,00 zł", 489, true},
		{"199,00 PLN", 199, true},
		{"1.234,56 €", 1234.56, true},
		{"€ 12,5", 12.5, true},
		{"£9.99", 9.99, true},
		{"129.99", 129.99, true},
		{"1 299,99 zł", 1299.99, true},
		{"Cena: 349,90 ZŁ", 349.9, true},
		{"15,000,000", 15000000, true},
		{"1.234", 1234, true},
		{"1,234", 1234, true},
		{"1299.-", 1299, true},
		{"zł", 0, false},
		{"call for price", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := NormalizePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestInPriceBounds(t *testing.T) {
	t.Parallel()

	assert.True(t, InPriceBounds(0.01, DefaultMaxPrice))
	assert.True(t, InPriceBounds(9_999_999, DefaultMaxPrice))
	assert.False(t, InPriceBounds(0, DefaultMaxPrice))
	assert.False(t, InPriceBounds(-5, DefaultMaxPrice))
	assert.False(t, InPriceBounds(10_000_000, DefaultMaxPrice))
	assert.False(t, InPriceBounds(15_000_000, DefaultMaxPrice))
}

func TestParseMachineNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"129.99", 129.99, true},
		{" 129.99 PLN", 129.99, true},
		{"1e3", 1000, true},
		{".5", 0.5, true},
		{"PLN 10", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseMachineNumber(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}
