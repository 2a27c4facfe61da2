package catalog

import (
	"github.com/shopspring/decimal"
)

// PriceSummary is the cached price range of a product across its links
type PriceSummary struct {
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
}

// ComputeAggregate returns the min and max current price over links.
// An empty set yields 0/0. The result is always computed from the full set.
func ComputeAggregate(links []ProductLink) PriceSummary {
	if len(links) == 0 {
		return PriceSummary{MinPrice: decimal.Zero, MaxPrice: decimal.Zero}
	}

	minPrice := links[0].CurrentPrice
	maxPrice := links[0].CurrentPrice
	for _, l := range links[1:] {
		if l.CurrentPrice.LessThan(minPrice) {
			minPrice = l.CurrentPrice
		}
		if l.CurrentPrice.GreaterThan(maxPrice) {
			maxPrice = l.CurrentPrice
		}
	}
	return PriceSummary{MinPrice: minPrice, MaxPrice: maxPrice}
}

// Equal reports whether two summaries describe the same range
func (s PriceSummary) Equal(other PriceSummary) bool {
	return s.MinPrice.Equal(other.MinPrice) && s.MaxPrice.Equal(other.MaxPrice)
}
