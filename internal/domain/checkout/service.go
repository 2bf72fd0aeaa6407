// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/cart"
	"github.com/readnwin/readnwin-backend/internal/domain/order"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service drives the checkout wizard
type Service struct {
	db             *gorm.DB
	redisClient    *redis.Client
	config         *config.Config
	log            *logrus.Logger
	cartService    *cart.Service
	orderService   *order.Service
	paymentService *payment.Service
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger, cartService *cart.Service, orderService *order.Service, paymentService *payment.Service) *Service {
	return &Service{
		db:             db,
		redisClient:    redisClient,
		config:         cfg,
		log:            log,
		cartService:    cartService,
		orderService:   orderService,
		paymentService: paymentService,
	}
}

// Analytics summarizes the order being assembled, shown beside every step
type Analytics struct {
	Subtotal   int64 `json:"subtotal"`
	Tax        int64 `json:"tax"`
	Total      int64 `json:"total"`
	TotalItems int   `json:"total_items"`
}

// State is the full wizard view returned to the client
type State struct {
	Step      Step                     `json:"step"`
	StepName  string                   `json:"step_name"`
	Form      FormData                 `json:"form"`
	Analytics Analytics                `json:"analytics"`
	Cart      *cart.CartResponse       `json:"cart"`
	Gateways  []payment.PaymentGateway `json:"payment_gateways"`
}

// UpdateFormRequest carries partial form updates; zero-value sections leave
// the stored data untouched
type UpdateFormRequest struct {
	Customer *CustomerForm `json:"customer,omitempty"`
	Payment  *PaymentForm  `json:"payment,omitempty"`
}

// SubmitRequest finalizes the wizard into an order
type SubmitRequest struct {
	Customer      *CustomerForm `json:"customer,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// SubmitResponse is the created order plus payment handoff
type SubmitResponse struct {
	Order   *order.Order              `json:"order"`
	Payment *payment.InitiationResult `json:"payment"`
}

// AnalyticsFromTotals maps cart totals onto the checkout summary
func AnalyticsFromTotals(totals cart.CartTotals) Analytics {
	return Analytics{
		Subtotal:   totals.SubTotal,
		Tax:        totals.TaxAmount,
		Total:      totals.TotalAmount,
		TotalItems: totals.TotalQuantity,
	}
}

// GetState returns the current wizard position, saved form data, cart
// summary and available gateways. A user arriving for the first time gets a
// fresh step 1 session.
func (s *Service) GetState(ctx context.Context, userID uint) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.buildState(session, userID)
}

// UpdateForm merges submitted fields into the session without moving steps,
// so a half-filled form survives reloads
func (s *Service) UpdateForm(ctx context.Context, userID uint, req *UpdateFormRequest) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Customer != nil {
		session.Form.Customer = *req.Customer
	}
	if req.Payment != nil {
		method := strings.TrimSpace(req.Payment.Method)
		if method != "" && !s.paymentService.IsGatewayEnabled(method) {
			return nil, fmt.Errorf("payment method not available: %s", method)
		}
		if method != "" {
			session.Form.Payment.Method = method
		}
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return s.buildState(session, userID)
}

// Next advances the wizard one step. The current step must validate first;
// a rejected advance leaves the session untouched.
func (s *Service) Next(ctx context.Context, userID uint) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, err := Advance(session.Step, &session.Form)
	if err != nil {
		return nil, err
	}

	session.Step = next
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return s.buildState(session, userID)
}

// Previous steps the wizard back, keeping all collected data
func (s *Service) Previous(ctx context.Context, userID uint) (*State, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	prev, err := Back(session.Step)
	if err != nil {
		return nil, err
	}

	session.Step = prev
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return s.buildState(session, userID)
}

// Reset discards the wizard state entirely
func (s *Service) Reset(ctx context.Context, userID uint) error {
	return s.clearSession(ctx, userID)
}

// Submit turns the wizard into an order and starts payment collection. The
// session is cleared only after the payment handoff succeeds; any earlier
// failure preserves both the session and the cart so the user can retry.
func (s *Service) Submit(ctx context.Context, userID uint, req *SubmitRequest) (*SubmitResponse, error) {
	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Inline values beat the stored session so a direct submit works too
	if req.Customer != nil {
		session.Form.Customer = *req.Customer
	}
	if strings.TrimSpace(req.PaymentMethod) != "" {
		session.Form.Payment.Method = strings.TrimSpace(req.PaymentMethod)
	}

	if err := session.Form.Validate(StepCustomerInfo); err != nil {
		return nil, err
	}
	if err := session.Form.Validate(StepPayment); err != nil {
		return nil, err
	}
	if !s.paymentService.IsGatewayEnabled(session.Form.Payment.Method) {
		return nil, fmt.Errorf("payment method not available: %s", session.Form.Payment.Method)
	}

	newOrder, err := s.orderService.CreateOrder(userID, &order.CreateOrderRequest{
		Customer: order.CustomerInfo{
			FirstName: strings.TrimSpace(session.Form.Customer.FirstName),
			LastName:  strings.TrimSpace(session.Form.Customer.LastName),
			Email:     strings.TrimSpace(session.Form.Customer.Email),
			Phone:     strings.TrimSpace(session.Form.Customer.Phone),
		},
		PaymentMethod: session.Form.Payment.Method,
		Notes:         req.Notes,
	})
	if err != nil {
		return nil, err
	}

	initiation, err := s.paymentService.InitializePayment(newOrder)
	if err != nil {
		s.log.WithError(err).WithField("order_number", newOrder.OrderNumber).Error("Payment initialization failed")
		return nil, fmt.Errorf("order %s created but payment could not be started: %w", newOrder.OrderNumber, err)
	}

	if err := s.clearSession(ctx, userID); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("Failed to clear checkout session")
	}

	s.log.WithFields(logrus.Fields{
		"order_number":   newOrder.OrderNumber,
		"payment_method": session.Form.Payment.Method,
		"user_id":        userID,
	}).Info("Checkout submitted")

	return &SubmitResponse{
		Order:   newOrder,
		Payment: initiation,
	}, nil
}

func (s *Service) buildState(session *Session, userID uint) (*State, error) {
	userIDPtr := &userID
	cartResponse, err := s.cartService.GetCart(userIDPtr, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return &State{
		Step:      session.Step,
		StepName:  session.Step.String(),
		Form:      session.Form,
		Analytics: AnalyticsFromTotals(cartResponse.Totals),
		Cart:      cartResponse,
		Gateways:  s.paymentService.ListGateways(),
	}, nil
}
