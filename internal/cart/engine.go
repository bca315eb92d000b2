// Package cart keeps the lines of the shopping cart and their totals.
package cart

import (
	"errors"
	"fmt"

	"github.com/fjod/decohome/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Engine holds at most one line per product id. It is not safe for
// concurrent use.
type Engine struct {
	lines []domain.CartLine
}

func NewEngine() *Engine {
	return &Engine{}
}

// Add merges quantity into the line for product.ID, or appends a new line
// with a copy of product.
func (e *Engine) Add(product domain.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	if i := e.index(product.ID); i >= 0 {
		e.lines[i].Quantity += quantity
		return nil
	}

	e.lines = append(e.lines, domain.CartLine{Product: product, Quantity: quantity})
	return nil
}

func (e *Engine) Remove(productID string) {
	i := e.index(productID)
	if i < 0 {
		return
	}
	e.lines = append(e.lines[:i], e.lines[i+1:]...)
}

// SetQuantity removes the line when quantity is below 1.
func (e *Engine) SetQuantity(productID string, quantity int) {
	if quantity < 1 {
		e.Remove(productID)
		return
	}
	if i := e.index(productID); i >= 0 {
		e.lines[i].Quantity = quantity
	}
}

func (e *Engine) TotalCount() int {
	count := 0
	for _, line := range e.lines {
		count += line.Quantity
	}
	return count
}

func (e *Engine) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.lines {
		total = total.Add(LineTotal(line))
	}
	return total
}

func (e *Engine) Clear() {
	e.lines = nil
}

func (e *Engine) IsEmpty() bool {
	return len(e.lines) == 0
}

func (e *Engine) Lines() []domain.CartLine {
	return append([]domain.CartLine{}, e.lines...)
}

func LineTotal(line domain.CartLine) decimal.Decimal {
	return decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

func (e *Engine) index(productID string) int {
	for i, line := range e.lines {
		if line.ID == productID {
			return i
		}
	}
	return -1
}
