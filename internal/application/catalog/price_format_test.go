package catalog

import (
	"testing"

	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp0", FormatRupiah(decimal.Zero))
	assert.Equal(t, "Rp999", FormatRupiah(decimal.NewFromInt(999)))
	assert.Equal(t, "Rp100.000", FormatRupiah(decimal.NewFromInt(100000)))
	assert.Equal(t, "Rp1.250.000", FormatRupiah(decimal.RequireFromString("1250000.00")))
}

func TestFormatPriceRange(t *testing.T) {
	assert.Equal(t, "", FormatPriceRange(catalog.PriceSummary{MinPrice: decimal.Zero, MaxPrice: decimal.Zero}))
	assert.Equal(t, "Rp100.000", FormatPriceRange(catalog.PriceSummary{
		MinPrice: decimal.NewFromInt(100000), MaxPrice: decimal.NewFromInt(100000),
	}))
	assert.Equal(t, "Rp100.000 - Rp200.000", FormatPriceRange(catalog.PriceSummary{
		MinPrice: decimal.NewFromInt(100000), MaxPrice: decimal.NewFromInt(200000),
	}))
}
