package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotals(t *testing.T) {
	const vatRate = 0.075

	t.Run("sums lines and applies VAT", func(t *testing.T) {
		items := []CartItemResponse{
			{BookID: 1, Quantity: 2, Price: 1000},
			{BookID: 2, Quantity: 1, Price: 1500},
		}

		totals := CalculateTotals(items, vatRate)

		assert.Equal(t, 2, totals.ItemCount)
		assert.Equal(t, 3, totals.TotalQuantity)
		assert.Equal(t, int64(3500), totals.SubTotal)
		// 3500 * 0.075 = 262.5, rounded half up to 263
		assert.Equal(t, int64(263), totals.TaxAmount)
		assert.Equal(t, int64(3763), totals.TotalAmount)
	})

	t.Run("empty cart is all zeros", func(t *testing.T) {
		totals := CalculateTotals(nil, vatRate)

		assert.Equal(t, 0, totals.ItemCount)
		assert.Equal(t, 0, totals.TotalQuantity)
		assert.Equal(t, int64(0), totals.SubTotal)
		assert.Equal(t, int64(0), totals.TaxAmount)
		assert.Equal(t, int64(0), totals.TotalAmount)
	})

	t.Run("VAT rounds to the nearest kobo", func(t *testing.T) {
		// 100 * 0.075 = 7.5 rounds up, 110 * 0.075 = 8.25 rounds down
		up := CalculateTotals([]CartItemResponse{{BookID: 1, Quantity: 1, Price: 100}}, vatRate)
		assert.Equal(t, int64(8), up.TaxAmount)

		down := CalculateTotals([]CartItemResponse{{BookID: 1, Quantity: 1, Price: 110}}, vatRate)
		assert.Equal(t, int64(8), down.TaxAmount)
	})

	t.Run("zero rate charges no tax", func(t *testing.T) {
		totals := CalculateTotals([]CartItemResponse{{BookID: 1, Quantity: 4, Price: 2500}}, 0)

		assert.Equal(t, int64(10000), totals.SubTotal)
		assert.Equal(t, int64(0), totals.TaxAmount)
		assert.Equal(t, totals.SubTotal, totals.TotalAmount)
	})
}

func TestGuestCartKey(t *testing.T) {
	assert.Equal(t, "cart:session:abc-123", guestCartKey("abc-123"))
}

func TestTransferGuestCartEmptyIsNoOp(t *testing.T) {
	// An empty transfer returns before touching any backend
	s := &Service{}

	assert.NoError(t, s.TransferGuestCart(1, nil))
	assert.NoError(t, s.TransferGuestCart(1, []TransferItem{}))
}
