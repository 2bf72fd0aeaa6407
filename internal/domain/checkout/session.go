// internal/domain/checkout/session.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/domain/payment"
	"github.com/redis/go-redis/v9"
)

// Session is the server-held state of a user's checkout wizard. It survives
// page reloads and short absences, and disappears when the TTL lapses or an
// order is submitted.
type Session struct {
	UserID    uint      `json:"user_id"`
	Step      Step      `json:"step"`
	Form      FormData  `json:"form"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a fresh wizard at step 1 with the gateway preselected
func NewSession(userID uint) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID: userID,
		Step:   StepCustomerInfo,
		Form: FormData{
			Payment: PaymentForm{Method: payment.GatewayFlutterwave},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("checkout:session:%d", userID)
}

// loadSession reads a session from Redis, returning a fresh one when none
// exists or the stored payload is unreadable
func (s *Service) loadSession(ctx context.Context, userID uint) (*Session, error) {
	data, err := s.redisClient.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return NewSession(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Corrupt checkout session, starting over")
		return NewSession(userID), nil
	}
	if !session.Step.IsValid() {
		session.Step = StepCustomerInfo
	}

	return &session, nil
}

// saveSession writes the session back with a refreshed TTL
func (s *Service) saveSession(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize checkout session: %w", err)
	}

	ttl := s.config.Commerce.CheckoutTTL
	if err := s.redisClient.Set(ctx, sessionKey(session.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save checkout session: %w", err)
	}
	return nil
}

// clearSession drops the stored wizard state
func (s *Service) clearSession(ctx context.Context, userID uint) error {
	return s.redisClient.Del(ctx, sessionKey(userID)).Err()
}
