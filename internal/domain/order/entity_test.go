package order

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^RNW-[0-9A-F]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		number := GenerateOrderNumber()
		assert.Regexp(t, pattern, number)
		seen[number] = true
	}

	// 100 draws from a 16^8 space should not collide
	assert.Len(t, seen, 100)
}

func TestGetFormattedTotal(t *testing.T) {
	o := Order{TotalAmount: 376350}
	assert.Equal(t, 3763.50, o.GetFormattedTotal())
}
