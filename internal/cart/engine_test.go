package cart

import (
	"testing"

	"github.com/fjod/decohome/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	productA = domain.Product{ID: "a", Name: "Reloj", Price: 10.00}
	productB = domain.Product{ID: "b", Name: "Frascos", Price: 5.50}
	productC = domain.Product{ID: "c", Name: "Copa", Price: 8.99}
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestAdd_DistinctProductsSumQuantities(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.Add(productA, 2))
	require.NoError(t, e.Add(productB, 3))
	require.NoError(t, e.Add(productC, 7))

	assert.Equal(t, 12, e.TotalCount())
	assert.Len(t, e.Lines(), 3)
}

func TestAdd_SameProductMergesIntoOneLine(t *testing.T) {
	e := NewEngine()

	require.NoError(t, e.Add(productA, 2))
	require.NoError(t, e.Add(productA, 5))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].ID)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	e := NewEngine()

	assert.ErrorIs(t, e.Add(productA, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, e.Add(productA, -3), ErrInvalidQuantity)
	assert.True(t, e.IsEmpty())
}

func TestAdd_CopiesProduct(t *testing.T) {
	e := NewEngine()
	p := productA
	require.NoError(t, e.Add(p, 1))

	p.Price = 99
	p.Name = "renamed"

	line := e.Lines()[0]
	assert.Equal(t, 10.00, line.Price)
	assert.Equal(t, "Reloj", line.Name)
}

func TestAdd_MergeKeepsPriceFromFirstAdd(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(productA, 1))

	repriced := productA
	repriced.Price = 20
	require.NoError(t, e.Add(repriced, 1))

	assert.True(t, dec(t, "20.00").Equal(e.Subtotal()))
}

func TestSetQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -42} {
		e := NewEngine()
		require.NoError(t, e.Add(productA, 2))
		require.NoError(t, e.Add(productB, 1))

		e.SetQuantity("a", q)

		lines := e.Lines()
		require.Len(t, lines, 1, "quantity %d", q)
		assert.Equal(t, "b", lines[0].ID)
	}
}

func TestSetQuantity_EquivalentToRemove(t *testing.T) {
	viaSet := NewEngine()
	viaRemove := NewEngine()
	for _, e := range []*Engine{viaSet, viaRemove} {
		require.NoError(t, e.Add(productA, 2))
		require.NoError(t, e.Add(productB, 4))
	}

	viaSet.SetQuantity("a", 0)
	viaRemove.Remove("a")

	assert.Equal(t, viaRemove.Lines(), viaSet.Lines())
}

func TestSetQuantity_UpdatesInPlace(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(productA, 2))
	require.NoError(t, e.Add(productB, 1))

	e.SetQuantity("a", 9)

	lines := e.Lines()
	assert.Equal(t, "a", lines[0].ID)
	assert.Equal(t, 9, lines[0].Quantity)
	assert.Equal(t, 10, e.TotalCount())
}

func TestSetQuantity_UnknownIDIsNoop(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(productA, 2))

	e.SetQuantity("zzz", 5)

	assert.Equal(t, 2, e.TotalCount())
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(productA, 1))

	e.Remove("zzz")

	assert.Len(t, e.Lines(), 1)
}

func TestSubtotal_Sequence(t *testing.T) {
	e := NewEngine()
	assert.True(t, decimal.Zero.Equal(e.Subtotal()))

	require.NoError(t, e.Add(productA, 2))
	assert.Equal(t, "20.00", e.Subtotal().StringFixed(2))

	require.NoError(t, e.Add(productB, 1))
	assert.Equal(t, "25.50", e.Subtotal().StringFixed(2))

	e.Remove("a")
	assert.Equal(t, "5.50", e.Subtotal().StringFixed(2))
}

func TestSubtotal_NoFloatDrift(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(domain.Product{ID: "x", Price: 0.1}, 3))
	require.NoError(t, e.Add(domain.Product{ID: "y", Price: 0.2}, 1))

	assert.True(t, dec(t, "0.5").Equal(e.Subtotal()))
}

func TestClear(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(productA, 1))
	require.NoError(t, e.Add(productB, 1))

	e.Clear()

	assert.True(t, e.IsEmpty())
	assert.Zero(t, e.TotalCount())
	assert.Empty(t, e.Lines())
}

func TestLines_ReturnsCopy(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Add(productA, 1))

	lines := e.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, 1, e.TotalCount())
}
