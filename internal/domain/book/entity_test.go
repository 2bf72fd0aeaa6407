package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.True(t, FormatEbook.IsDigital())
	assert.False(t, FormatEbook.IsPhysical())

	assert.False(t, FormatPhysical.IsDigital())
	assert.True(t, FormatPhysical.IsPhysical())

	assert.True(t, FormatBoth.IsDigital())
	assert.True(t, FormatBoth.IsPhysical())
}

func TestInStock(t *testing.T) {
	t.Run("ebooks are always in stock", func(t *testing.T) {
		b := Book{Format: FormatEbook, StockQuantity: 0}
		assert.True(t, b.InStock(100))
	})

	t.Run("untracked physical books are always in stock", func(t *testing.T) {
		b := Book{Format: FormatPhysical, InventoryEnabled: false, StockQuantity: 0}
		assert.True(t, b.InStock(5))
	})

	t.Run("tracked physical books are limited by stock", func(t *testing.T) {
		b := Book{Format: FormatPhysical, InventoryEnabled: true, StockQuantity: 3}
		assert.True(t, b.InStock(3))
		assert.False(t, b.InStock(4))
	})

	t.Run("dual format follows physical stock rules", func(t *testing.T) {
		b := Book{Format: FormatBoth, InventoryEnabled: true, StockQuantity: 0}
		assert.False(t, b.InStock(1))
	})
}
