// internal/domain/payment/gateway.go
package payment

import (
	"time"
)

// Gateway IDs
const (
	GatewayFlutterwave  = "flutterwave"
	GatewayBankTransfer = "bank_transfer"
)

// PaymentGateway represents a configured payment method
type PaymentGateway struct {
	ID          string `gorm:"primaryKey;size:50" json:"id"`
	Name        string `gorm:"not null;size:100" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Enabled     bool   `gorm:"default:true" json:"enabled"`
	Icon        string `gorm:"size:255" json:"icon,omitempty"`
	SortOrder   int    `gorm:"default:0" json:"-"`

	// Bank transfer settings, unused for hosted gateways
	BankName      string `gorm:"size:100" json:"bank_name,omitempty"`
	AccountNumber string `gorm:"size:20" json:"account_number,omitempty"`
	AccountName   string `gorm:"size:100" json:"account_name,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (PaymentGateway) TableName() string { return "payment_gateways" }

// BankAccount holds the destination account for manual transfers
type BankAccount struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// DefaultGateways is the fallback set served when none are configured,
// so checkout never renders an empty payment step.
func DefaultGateways() []PaymentGateway {
	return []PaymentGateway{
		{
			ID:          GatewayFlutterwave,
			Name:        "Flutterwave",
			Description: "Pay with card, bank account, USSD or mobile money",
			Enabled:     true,
			SortOrder:   1,
		},
		{
			ID:          GatewayBankTransfer,
			Name:        "Bank Transfer",
			Description: "Transfer to our bank account and upload proof of payment",
			Enabled:     true,
			SortOrder:   2,
		},
	}
}

// IsValidGateway reports whether the gateway ID is one we can process
func IsValidGateway(id string) bool {
	return id == GatewayFlutterwave || id == GatewayBankTransfer
}
