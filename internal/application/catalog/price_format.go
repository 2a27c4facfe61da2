package catalog

import (
	"github.com/arghosts/affiliate-shop-sub000/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders a whole-rupiah amount the Indonesian way, e.g. Rp100.000
func FormatRupiah(amount decimal.Decimal) string {
	return idPrinter.Sprintf("Rp%d", amount.Round(0).IntPart())
}

// FormatPriceRange renders a price summary. A product without links has no range.
func FormatPriceRange(s catalog.PriceSummary) string {
	if s.MinPrice.IsZero() && s.MaxPrice.IsZero() {
		return ""
	}
	if s.MinPrice.Equal(s.MaxPrice) {
		return FormatRupiah(s.MinPrice)
	}
	return FormatRupiah(s.MinPrice) + " - " + FormatRupiah(s.MaxPrice)
}
