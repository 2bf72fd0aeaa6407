// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Order represents a book order
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderNumber   string        `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	Status        OrderStatus   `gorm:"not null;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentMethod string        `gorm:"not null;size:50" json:"payment_method"`

	// Customer information captured at checkout
	Customer CustomerInfo `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`

	// Amounts in kobo
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	TaxAmount      int64 `gorm:"default:0" json:"tax_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	Currency string `gorm:"size:3;default:'NGN'" json:"currency"`
	Notes    string `gorm:"type:text" json:"notes"`

	// Set by the payment gateway once known
	PaymentReference string `gorm:"size:255;index" json:"payment_reference"`

	PaidAt    *time.Time     `json:"paid_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Payments      []Payment            `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments,omitempty"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// CustomerInfo is the buyer's contact information, embedded in Order
type CustomerInfo struct {
	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Email     string `gorm:"size:255;not null" json:"email"`
	Phone     string `gorm:"size:20" json:"phone"`
}

// OrderItem is a book line snapshot at purchase time
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	BookID     uint      `gorm:"not null;index" json:"book_id"`
	Title      string    `gorm:"not null;size:255" json:"title"`
	AuthorName string    `gorm:"size:255" json:"author_name"`
	Format     string    `gorm:"size:20" json:"format"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Price      int64     `gorm:"not null" json:"price"`       // Per unit, in kobo
	TotalPrice int64     `gorm:"not null" json:"total_price"` // Quantity * Price
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Payment represents a payment transaction against an order
type Payment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	OrderID         uint           `gorm:"not null;index" json:"order_id"`
	Gateway         string         `gorm:"not null;size:50" json:"gateway"` // flutterwave, bank_transfer
	TransactionRef  string         `gorm:"size:255;index" json:"transaction_ref"`
	ProviderTxID    string         `gorm:"size:255" json:"provider_tx_id"`
	Amount          int64          `gorm:"not null" json:"amount"` // In kobo
	Currency        string         `gorm:"size:3;default:'NGN'" json:"currency"`
	Status          PaymentStatus  `gorm:"not null" json:"status"`
	GatewayResponse string         `gorm:"type:text" json:"gateway_response"` // Raw JSON from gateway
	ProcessedAt     *time.Time     `json:"processed_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy uint        `gorm:"index" json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (Payment) TableName() string            { return "payments" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// GenerateOrderNumber returns a new order number in the form RNW-XXXXXXXX,
// where the suffix is the first 8 hex characters of a random UUID.
func GenerateOrderNumber() string {
	fragment := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("RNW-%s", fragment)
}

// GetFormattedTotal returns the total amount in naira
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// CanBeCancelled checks if the order can still be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending
}

// IsPaid checks if the order has been paid for
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// HasDigitalItems reports whether any line grants ebook access
func (o *Order) HasDigitalItems() bool {
	for _, item := range o.Items {
		if item.Format == "ebook" || item.Format == "both" {
			return true
		}
	}
	return false
}

// AddStatusHistory appends a status change to the in-memory history
func (o *Order) AddStatusHistory(status OrderStatus, comment string, createdBy uint) {
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	})
}
