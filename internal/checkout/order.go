// Package checkout validates the storefront forms and turns a cart into a
// confirmed order. Payment is mocked; no payment processor is contacted.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/decohome/internal/cart"
	"github.com/fjod/decohome/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlatShipping is charged on any non-empty order.
var FlatShipping = decimal.NewFromFloat(5.00)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

func ComputeTotals(subtotal decimal.Decimal) Totals {
	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = FlatShipping
	}
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
	}
}

// PaymentProcessor charges an order.
type PaymentProcessor interface {
	Charge(ctx context.Context, order domain.Order, form domain.CheckoutForm) (string, error)
}

// MockPayment approves every charge.
type MockPayment struct{}

func (MockPayment) Charge(_ context.Context, order domain.Order, _ domain.CheckoutForm) (string, error) {
	return fmt.Sprintf("TXN-%s", order.ID), nil
}

// NewOrder snapshots lines into an order with computed totals.
func NewOrder(lines []domain.CartLine, now time.Time) domain.Order {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(cart.LineTotal(line))
	}
	totals := ComputeTotals(subtotal)

	return domain.Order{
		ID:       uuid.NewString(),
		Lines:    append([]domain.CartLine{}, lines...),
		Subtotal: totals.Subtotal,
		Shipping: totals.Shipping,
		Total:    totals.Total,
		PlacedAt: now,
	}
}
