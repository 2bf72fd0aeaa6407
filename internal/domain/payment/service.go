// internal/domain/payment/service.go
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/cart"
	"github.com/readnwin/readnwin-backend/internal/domain/library"
	"github.com/readnwin/readnwin-backend/internal/domain/order"
	"github.com/readnwin/readnwin-backend/internal/pkg/email"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BankTransferExpiry is how long a manual transfer stays payable
const BankTransferExpiry = 48 * time.Hour

// Service handles payment processing
type Service struct {
	db             *gorm.DB
	config         *config.Config
	log            *logrus.Logger
	flutterwave    *FlutterwaveClient
	cartService    *cart.Service
	libraryService *library.Service
	emailService   *email.EmailService
}

// NewService creates a new payment service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger, cartService *cart.Service, libraryService *library.Service, emailService *email.EmailService) *Service {
	return &Service{
		db:             db,
		config:         cfg,
		log:            log,
		flutterwave:    NewFlutterwaveClient(cfg),
		cartService:    cartService,
		libraryService: libraryService,
		emailService:   emailService,
	}
}

// InitiationResult is what checkout hands back to the client after an order
// is created
type InitiationResult struct {
	PaymentMethod string       `json:"payment_method"`
	Reference     string       `json:"reference"`
	PaymentURL    string       `json:"payment_url,omitempty"`
	BankAccount   *BankAccount `json:"bank_account,omitempty"`
	Amount        int64        `json:"amount"`
	Currency      string       `json:"currency"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
}

// CallbackResult carries the frontend redirect after gateway verification
type CallbackResult struct {
	OrderNumber string `json:"order_number"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
}

// ListGateways returns enabled payment gateways. Falls back to the default
// pair when the table is empty or unreachable so checkout always has
// something to offer.
func (s *Service) ListGateways() []PaymentGateway {
	var gateways []PaymentGateway
	err := s.db.Where("enabled = ?", true).Order("sort_order asc").Find(&gateways).Error
	if err != nil || len(gateways) == 0 {
		if err != nil {
			s.log.WithError(err).Warn("Failed to load payment gateways, using defaults")
		}
		return DefaultGateways()
	}
	return gateways
}

// IsGatewayEnabled reports whether the method is currently offered. Checks
// the configured registry, not just the known IDs, so an admin-disabled
// gateway cannot be selected at checkout.
func (s *Service) IsGatewayEnabled(id string) bool {
	if !IsValidGateway(id) {
		return false
	}
	for _, g := range s.ListGateways() {
		if g.ID == id {
			return true
		}
	}
	return false
}

// InitializePayment starts payment collection for a pending order
func (s *Service) InitializePayment(o *order.Order) (*InitiationResult, error) {
	if o.Status != order.OrderStatusPending && o.Status != order.OrderStatusFailed {
		return nil, fmt.Errorf("order is not payable in status %s", o.Status)
	}

	var (
		result *InitiationResult
		err    error
	)
	switch o.PaymentMethod {
	case GatewayFlutterwave:
		result, err = s.initializeFlutterwave(o)
	case GatewayBankTransfer:
		result, err = s.initializeBankTransfer(o)
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", o.PaymentMethod)
	}
	if err != nil {
		return nil, err
	}

	go s.sendOrderConfirmationEmail(o)

	return result, nil
}

func (s *Service) initializeFlutterwave(o *order.Order) (*InitiationResult, error) {
	txRef := fmt.Sprintf("FLW_%s_%d", o.OrderNumber, time.Now().Unix())

	payment := order.Payment{
		OrderID:        o.ID,
		Gateway:        GatewayFlutterwave,
		TransactionRef: txRef,
		Amount:         o.TotalAmount,
		Currency:       o.Currency,
		Status:         order.PaymentStatusPending,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	paymentURL, err := s.flutterwave.InitializePayment(&FlutterwavePaymentRequest{
		TxRef:       txRef,
		Amount:      float64(o.TotalAmount) / 100,
		Currency:    o.Currency,
		RedirectURL: s.config.App.FrontendURL + "/payment/callback",
		Customer: FlutterwaveCustomer{
			Email:       o.Customer.Email,
			Name:        fmt.Sprintf("%s %s", o.Customer.FirstName, o.Customer.LastName),
			PhoneNumber: o.Customer.Phone,
		},
		Customizations: FlutterwaveCustomize{
			Title:       s.config.App.CompanyName + " Payment",
			Description: fmt.Sprintf("Payment for order %s", o.OrderNumber),
			Logo:        s.config.App.FrontendURL + "/logo.png",
		},
		Meta: map[string]interface{}{
			"order_id":     o.ID,
			"user_id":      o.UserID,
			"order_number": o.OrderNumber,
			"payment_id":   payment.ID,
		},
	})
	if err != nil {
		s.db.Model(&payment).Update("status", order.PaymentStatusFailed)
		return nil, fmt.Errorf("failed to initialize flutterwave payment: %w", err)
	}

	s.db.Model(&order.Order{}).Where("id = ?", o.ID).Update("payment_reference", txRef)

	return &InitiationResult{
		PaymentMethod: GatewayFlutterwave,
		Reference:     txRef,
		PaymentURL:    paymentURL,
		Amount:        o.TotalAmount,
		Currency:      o.Currency,
	}, nil
}

func (s *Service) initializeBankTransfer(o *order.Order) (*InitiationResult, error) {
	txRef := fmt.Sprintf("BT_%s_%d", o.OrderNumber, time.Now().Unix())

	payment := order.Payment{
		OrderID:        o.ID,
		Gateway:        GatewayBankTransfer,
		TransactionRef: txRef,
		Amount:         o.TotalAmount,
		Currency:       o.Currency,
		Status:         order.PaymentStatusProcessing,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	s.db.Model(&order.Order{}).Where("id = ?", o.ID).Update("payment_reference", txRef)

	account := s.bankAccount()
	expiresAt := time.Now().UTC().Add(BankTransferExpiry)

	go func() {
		err := s.emailService.SendBankTransferInstructionsEmail(context.Background(), email.BankTransferData{
			EmailTemplateData: email.EmailTemplateData{
				UserName:  o.Customer.FirstName,
				UserEmail: o.Customer.Email,
			},
			OrderNumber:   o.OrderNumber,
			Amount:        float64(o.TotalAmount) / 100,
			Reference:     txRef,
			BankName:      account.BankName,
			AccountNumber: account.AccountNumber,
			AccountName:   account.AccountName,
			ExpiryTime:    "48 hours",
		})
		if err != nil {
			s.log.WithError(err).Warn("Failed to send bank transfer instructions email")
		}
	}()

	return &InitiationResult{
		PaymentMethod: GatewayBankTransfer,
		Reference:     txRef,
		BankAccount:   account,
		Amount:        o.TotalAmount,
		Currency:      o.Currency,
		ExpiresAt:     &expiresAt,
	}, nil
}

// HandleFlutterwaveCallback processes the gateway redirect after a hosted
// payment attempt. The transaction is re-verified against the Flutterwave
// API before anything is marked paid; the query string alone is never
// trusted. A failed or abandoned payment leaves the cart intact.
func (s *Service) HandleFlutterwaveCallback(status, txRef, transactionID string) (*CallbackResult, error) {
	if txRef == "" {
		return nil, fmt.Errorf("missing transaction reference")
	}

	var payment order.Payment
	if err := s.db.Where("transaction_ref = ?", txRef).First(&payment).Error; err != nil {
		return nil, fmt.Errorf("payment not found")
	}

	var o order.Order
	if err := s.db.Preload("Items").First(&o, payment.OrderID).Error; err != nil {
		return nil, fmt.Errorf("order not found")
	}

	if o.IsPaid() {
		return s.callbackResult(&o, "success"), nil
	}

	if status == "cancelled" || transactionID == "" {
		s.markFailed(&o, &payment, "Payment cancelled by customer")
		return s.callbackResult(&o, "cancelled"), nil
	}

	tx, err := s.flutterwave.VerifyTransaction(transactionID)
	if err != nil {
		s.log.WithError(err).WithField("tx_ref", txRef).Error("Flutterwave verification failed")
		s.markFailed(&o, &payment, "Gateway verification failed")
		return s.callbackResult(&o, "failed"), nil
	}

	verifiedAmount := int64(tx.Amount * 100)
	if !tx.IsSuccessful() || tx.TxRef != txRef || verifiedAmount < o.TotalAmount {
		s.markFailed(&o, &payment, fmt.Sprintf("Payment not successful: %s", tx.Status))
		return s.callbackResult(&o, "failed"), nil
	}

	rawResponse, _ := json.Marshal(tx)
	if err := s.markPaid(&o, &payment, fmt.Sprintf("%d", tx.ID), string(rawResponse)); err != nil {
		return nil, err
	}

	return s.callbackResult(&o, "success"), nil
}

// GetBankTransferDetails returns the destination account and payment state
// for a user's bank transfer order
func (s *Service) GetBankTransferDetails(userID, orderID uint) (*InitiationResult, error) {
	var payment order.Payment
	err := s.db.
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("payments.order_id = ? AND orders.user_id = ? AND payments.gateway = ?",
			orderID, userID, GatewayBankTransfer).
		First(&payment).Error
	if err != nil {
		return nil, fmt.Errorf("bank transfer not found for this order")
	}

	expiresAt := payment.CreatedAt.Add(BankTransferExpiry)
	return &InitiationResult{
		PaymentMethod: GatewayBankTransfer,
		Reference:     payment.TransactionRef,
		BankAccount:   s.bankAccount(),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		ExpiresAt:     &expiresAt,
	}, nil
}

// ConfirmBankTransfer marks a bank transfer order as paid. Admin only, after
// checking the proof of payment.
func (s *Service) ConfirmBankTransfer(orderID, adminID uint) error {
	var payment order.Payment
	err := s.db.
		Where("order_id = ? AND gateway = ?", orderID, GatewayBankTransfer).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		return fmt.Errorf("bank transfer payment not found")
	}

	var o order.Order
	if err := s.db.Preload("Items").First(&o, orderID).Error; err != nil {
		return fmt.Errorf("order not found")
	}

	if o.IsPaid() {
		return fmt.Errorf("order is already paid")
	}

	return s.markPaid(&o, &payment, fmt.Sprintf("admin:%d", adminID), "")
}

// markPaid settles an order inside one transaction: the payment and order
// flip to paid, the buyer's cart is cleared, and every digital line lands in
// their library. Confirmation email goes out after commit.
func (s *Service) markPaid(o *order.Order, payment *order.Payment, providerTxID, rawResponse string) error {
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":           order.PaymentStatusPaid,
			"provider_tx_id":   providerTxID,
			"gateway_response": rawResponse,
			"processed_at":     now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&order.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
			"status":         order.OrderStatusPaid,
			"payment_status": order.PaymentStatusPaid,
			"paid_at":        now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&order.OrderStatusHistory{
			OrderID:   o.ID,
			Status:    order.OrderStatusPaid,
			Comment:   fmt.Sprintf("Payment confirmed via %s", payment.Gateway),
			CreatedBy: o.UserID,
			CreatedAt: now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", o.UserID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		lines := make([]library.OrderLine, 0, len(o.Items))
		for _, item := range o.Items {
			lines = append(lines, library.OrderLine{BookID: item.BookID, Format: item.Format})
		}
		return s.libraryService.GrantOrderItems(tx, o.UserID, o.ID, lines)
	})
	if err != nil {
		return fmt.Errorf("failed to settle payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"gateway":      payment.Gateway,
		"amount":       payment.Amount,
	}).Info("Payment completed")

	go s.sendPaymentSuccessEmail(o, payment)

	return nil
}

func (s *Service) markFailed(o *order.Order, payment *order.Payment, reason string) {
	now := time.Now().UTC()

	s.db.Model(payment).Updates(map[string]interface{}{
		"status":       order.PaymentStatusFailed,
		"processed_at": now,
	})
	s.db.Model(&order.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":         order.OrderStatusFailed,
		"payment_status": order.PaymentStatusFailed,
	})
	s.db.Create(&order.OrderStatusHistory{
		OrderID:   o.ID,
		Status:    order.OrderStatusFailed,
		Comment:   reason,
		CreatedBy: o.UserID,
		CreatedAt: now,
	})

	s.log.WithFields(logrus.Fields{
		"order_number": o.OrderNumber,
		"reason":       reason,
	}).Warn("Payment failed")

	go s.sendPaymentFailedEmail(o, payment, reason)
}

func (s *Service) sendPaymentSuccessEmail(o *order.Order, payment *order.Payment) {
	data := email.PaymentNotificationData{
		EmailTemplateData: email.EmailTemplateData{
			UserName:  o.Customer.FirstName,
			UserEmail: o.Customer.Email,
		},
		OrderNumber:   o.OrderNumber,
		Amount:        float64(payment.Amount) / 100,
		PaymentMethod: payment.Gateway,
		TransactionID: payment.TransactionRef,
		OrderURL:      fmt.Sprintf("%s/order-confirmation/%s", s.config.App.FrontendURL, o.OrderNumber),
		Date:          time.Now().Format("2006-01-02 15:04"),
		Status:        "paid",
	}
	if err := s.emailService.SendPaymentSuccessEmail(context.Background(), data); err != nil {
		s.log.WithError(err).Warn("Failed to send payment confirmation email")
	}
}

func (s *Service) sendPaymentFailedEmail(o *order.Order, payment *order.Payment, reason string) {
	data := email.PaymentNotificationData{
		EmailTemplateData: email.EmailTemplateData{
			UserName:  o.Customer.FirstName,
			UserEmail: o.Customer.Email,
		},
		OrderNumber:   o.OrderNumber,
		Amount:        float64(payment.Amount) / 100,
		PaymentMethod: payment.Gateway,
		TransactionID: payment.TransactionRef,
		OrderURL:      fmt.Sprintf("%s/order-confirmation/%s", s.config.App.FrontendURL, o.OrderNumber),
		Date:          time.Now().Format("2006-01-02 15:04"),
		Status:        "failed",
		Reason:        reason,
	}
	if err := s.emailService.SendPaymentFailedEmail(context.Background(), data); err != nil {
		s.log.WithError(err).Warn("Failed to send payment failed email")
	}
}

func (s *Service) sendOrderConfirmationEmail(o *order.Order) {
	items := make([]email.OrderItem, 0, len(o.Items))
	hasEbooks := false
	for _, item := range o.Items {
		if item.Format == "ebook" || item.Format == "both" {
			hasEbooks = true
		}
		items = append(items, email.OrderItem{
			Title:      item.Title,
			AuthorName: item.AuthorName,
			Format:     item.Format,
			Quantity:   item.Quantity,
			Price:      float64(item.Price) / 100,
			Total:      float64(item.TotalPrice) / 100,
		})
	}

	data := email.OrderConfirmationData{
		EmailTemplateData: email.EmailTemplateData{
			UserName:  o.Customer.FirstName,
			UserEmail: o.Customer.Email,
		},
		OrderNumber:   o.OrderNumber,
		OrderDate:     o.CreatedAt.Format("2006-01-02 15:04"),
		OrderTotal:    float64(o.TotalAmount) / 100,
		OrderURL:      fmt.Sprintf("%s/order-confirmation/%s", s.config.App.FrontendURL, o.OrderNumber),
		Items:         items,
		PaymentMethod: o.PaymentMethod,
		HasEbooks:     hasEbooks,
	}
	if hasEbooks {
		data.LibraryURL = fmt.Sprintf("%s/library", s.config.App.FrontendURL)
	}
	if err := s.emailService.SendOrderConfirmationEmail(context.Background(), data); err != nil {
		s.log.WithError(err).Warn("Failed to send order confirmation email")
	}
}

func (s *Service) callbackResult(o *order.Order, status string) *CallbackResult {
	return &CallbackResult{
		OrderNumber: o.OrderNumber,
		Status:      status,
		RedirectURL: fmt.Sprintf("%s/order-confirmation/%s?status=%s",
			s.config.App.FrontendURL, o.OrderNumber, status),
	}
}

func (s *Service) bankAccount() *BankAccount {
	var gateway PaymentGateway
	err := s.db.Where("id = ?", GatewayBankTransfer).First(&gateway).Error
	if err == nil && gateway.AccountNumber != "" {
		return &BankAccount{
			BankName:      gateway.BankName,
			AccountNumber: gateway.AccountNumber,
			AccountName:   gateway.AccountName,
		}
	}
	return &BankAccount{
		BankName:      "Access Bank",
		AccountNumber: "0101234567",
		AccountName:   "ReadnWin Online Resources",
	}
}
