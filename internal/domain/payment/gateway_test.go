package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGateways(t *testing.T) {
	gateways := DefaultGateways()
	require.Len(t, gateways, 2)

	assert.Equal(t, GatewayFlutterwave, gateways[0].ID)
	assert.Equal(t, GatewayBankTransfer, gateways[1].ID)

	for _, g := range gateways {
		assert.True(t, g.Enabled)
		assert.NotEmpty(t, g.Name)
		assert.NotEmpty(t, g.Description)
	}
}

func TestIsValidGateway(t *testing.T) {
	assert.True(t, IsValidGateway(GatewayFlutterwave))
	assert.True(t, IsValidGateway(GatewayBankTransfer))
	assert.False(t, IsValidGateway("paypal"))
	assert.False(t, IsValidGateway(""))
	assert.False(t, IsValidGateway("Flutterwave"))
}
