package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory is one append-only price observation for a product link
type PriceHistory struct {
	ID         uuid.UUID
	LinkID     uuid.UUID
	Price      decimal.Decimal
	RecordedAt time.Time
}

// NewPriceHistory records price for linkID at the current time
func NewPriceHistory(linkID uuid.UUID, price decimal.Decimal) PriceHistory {
	return PriceHistory{
		ID:         uuid.New(),
		LinkID:     linkID,
		Price:      price,
		RecordedAt: time.Now(),
	}
}
