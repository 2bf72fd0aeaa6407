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

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
)

func newSessionTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Commerce: config.CommerceConfig{CheckoutTTL: time.Hour},
	}

	return &Service{redisClient: client, config: cfg, log: log}, mr
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("saved step and form survive a reload", func(t *testing.T) {
		s, _ := newSessionTestService(t)

		session := NewSession(7)
		session.Step = StepPayment
		session.Form.Customer = CustomerForm{
			FirstName: "Ada",
			LastName:  "Obi",
			Email:     "ada@example.com",
		}
		session.Form.Payment.Method = payment.GatewayBankTransfer
		require.NoError(t, s.saveSession(ctx, session))

		restored, err := s.loadSession(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, StepPayment, restored.Step)
		assert.Equal(t, "Ada", restored.Form.Customer.FirstName)
		assert.Equal(t, "ada@example.com", restored.Form.Customer.Email)
		assert.Equal(t, payment.GatewayBankTransfer, restored.Form.Payment.Method)
	})

	t.Run("first visit gets a fresh step one session", func(t *testing.T) {
		s, _ := newSessionTestService(t)

		session, err := s.loadSession(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, StepCustomerInfo, session.Step)
		assert.Equal(t, payment.GatewayFlutterwave, session.Form.Payment.Method)
	})

	t.Run("corrupt payload starts the wizard over", func(t *testing.T) {
		s, mr := newSessionTestService(t)

		require.NoError(t, mr.Set(sessionKey(7), "{not json"))

		session, err := s.loadSession(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, StepCustomerInfo, session.Step)
	})

	t.Run("save sets a TTL on the key", func(t *testing.T) {
		s, mr := newSessionTestService(t)

		require.NoError(t, s.saveSession(ctx, NewSession(7)))
		assert.Greater(t, mr.TTL(sessionKey(7)), time.Duration(0))
	})
}

func TestSessionClearAndFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("reset discards collected state", func(t *testing.T) {
		s, _ := newSessionTestService(t)

		session := NewSession(7)
		session.Step = StepPayment
		session.Form.Customer.FirstName = "Ada"
		require.NoError(t, s.saveSession(ctx, session))

		require.NoError(t, s.Reset(ctx, 7))

		restored, err := s.loadSession(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, StepCustomerInfo, restored.Step)
		assert.Empty(t, restored.Form.Customer.FirstName)
	})

	t.Run("rejected advance leaves the session untouched", func(t *testing.T) {
		s, _ := newSessionTestService(t)

		// Step 1 with an empty form cannot be left
		require.NoError(t, s.saveSession(ctx, NewSession(7)))

		_, err := s.Next(ctx, 7)
		require.Error(t, err)

		restored, loadErr := s.loadSession(ctx, 7)
		require.NoError(t, loadErr)
		assert.Equal(t, StepCustomerInfo, restored.Step)
	})
}
