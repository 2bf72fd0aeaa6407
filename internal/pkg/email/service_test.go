package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnwin/readnwin-backend/internal/config"
)

func newTestEmailService(t *testing.T) *EmailService {
	t.Helper()
	cfg := &config.Config{
		External: config.ExternalConfig{
			Email: config.EmailConfig{
				Provider:    "smtp",
				FromEmail:   "noreply@readnwin.com",
				FromName:    "ReadnWin",
				BaseURL:     "http://localhost:3000",
				TemplateDir: t.TempDir(), // empty dir forces the fallback templates
			},
		},
	}
	return NewEmailService(cfg)
}

func TestRenderTemplateFallbacks(t *testing.T) {
	s := newTestEmailService(t)

	t.Run("order confirmation renders with order data", func(t *testing.T) {
		out, err := s.renderTemplate("order_confirmation", OrderConfirmationData{
			EmailTemplateData: GetBaseTemplateData("ReadnWin", "http://localhost:3000", "Ada", "ada@example.com"),
			OrderNumber:       "RNW-1A2B3C4D",
			OrderTotal:        3763.00,
			Items: []OrderItem{
				{Title: "Things Fall Apart", Quantity: 2, Price: 1500, Total: 3000},
			},
		})
		require.NoError(t, err)
		assert.Contains(t, out, "Ada")
	})

	t.Run("payment failed renders with a reason", func(t *testing.T) {
		out, err := s.renderTemplate("payment_failed", PaymentNotificationData{
			EmailTemplateData: GetBaseTemplateData("ReadnWin", "http://localhost:3000", "Ada", "ada@example.com"),
			OrderNumber:       "RNW-1A2B3C4D",
			Status:            "failed",
			Reason:            "card declined",
		})
		require.NoError(t, err)
		assert.Contains(t, out, "ReadnWin")
	})

	t.Run("unknown template is an error", func(t *testing.T) {
		_, err := s.renderTemplate("password_reset", nil)
		assert.Error(t, err)
	})
}
