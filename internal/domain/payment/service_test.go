package payment

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGatewayTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&PaymentGateway{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Service{db: db, log: log}
}

func TestIsGatewayEnabled(t *testing.T) {
	t.Run("disabled gateway cannot be selected", func(t *testing.T) {
		s := newGatewayTestService(t)

		require.NoError(t, s.db.Create(&PaymentGateway{
			ID:      GatewayFlutterwave,
			Name:    "Flutterwave",
			Enabled: true,
		}).Error)
		require.NoError(t, s.db.Create(&PaymentGateway{
			ID:      GatewayBankTransfer,
			Name:    "Bank Transfer",
			Enabled: true,
		}).Error)

		// Admin turns Flutterwave off
		require.NoError(t, s.db.Model(&PaymentGateway{}).
			Where("id = ?", GatewayFlutterwave).
			Update("enabled", false).Error)

		assert.False(t, s.IsGatewayEnabled(GatewayFlutterwave))
		assert.True(t, s.IsGatewayEnabled(GatewayBankTransfer))
	})

	t.Run("unknown id is never enabled", func(t *testing.T) {
		s := newGatewayTestService(t)

		require.NoError(t, s.db.Create(&PaymentGateway{
			ID:      GatewayBankTransfer,
			Name:    "Bank Transfer",
			Enabled: true,
		}).Error)

		assert.False(t, s.IsGatewayEnabled("paystack"))
	})

	t.Run("empty registry falls back to the default pair", func(t *testing.T) {
		s := newGatewayTestService(t)

		assert.True(t, s.IsGatewayEnabled(GatewayFlutterwave))
		assert.True(t, s.IsGatewayEnabled(GatewayBankTransfer))
	})
}

func TestListGatewaysOrdering(t *testing.T) {
	s := newGatewayTestService(t)

	require.NoError(t, s.db.Create(&PaymentGateway{
		ID: GatewayBankTransfer, Name: "Bank Transfer", Enabled: true, SortOrder: 2,
	}).Error)
	require.NoError(t, s.db.Create(&PaymentGateway{
		ID: GatewayFlutterwave, Name: "Flutterwave", Enabled: true, SortOrder: 1,
	}).Error)

	gateways := s.ListGateways()
	require.Len(t, gateways, 2)
	assert.Equal(t, GatewayFlutterwave, gateways[0].ID)
	assert.Equal(t, GatewayBankTransfer, gateways[1].ID)
}
