package checkout

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
)

func TestUpdateFormRejectsDisabledGateway(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&payment.PaymentGateway{}))

	// Only bank transfer is switched on
	require.NoError(t, db.Create(&payment.PaymentGateway{
		ID:      payment.GatewayBankTransfer,
		Name:    "Bank Transfer",
		Enabled: true,
	}).Error)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{Commerce: config.CommerceConfig{CheckoutTTL: time.Hour}}

	s := &Service{
		redisClient:    client,
		config:         cfg,
		log:            log,
		paymentService: payment.NewService(db, cfg, log, nil, nil, nil),
	}

	_, err = s.UpdateForm(context.Background(), 7, &UpdateFormRequest{
		Payment: &PaymentForm{Method: payment.GatewayFlutterwave},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment method not available")

	// The rejected selection must not be persisted
	session, loadErr := s.loadSession(context.Background(), 7)
	require.NoError(t, loadErr)
	assert.Equal(t, payment.GatewayFlutterwave, session.Form.Payment.Method) // fresh default, nothing saved
	assert.False(t, mr.Exists(sessionKey(7)))
}
