package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// AmountScale is the number of fraction digits kept for money values.
	AmountScale = 2
	// AmountPrecision is the maximum number of significant digits (NUMERIC(18,2)).
	AmountPrecision = 18
)

// Order is a placed order and its total.
type Order struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func (o *Order) OwnerID() int64 { return o.UserID }

// ValidateAmount rejects negative values, values with more than two fraction
// digits and values that do not fit NUMERIC(18,2).
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return ErrInvalidAmount
	}
	limit := decimal.New(1, AmountPrecision-AmountScale)
	if d.GreaterThanOrEqual(limit) {
		return ErrInvalidAmount
	}
	return nil
}
