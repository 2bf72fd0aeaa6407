// internal/domain/cart/entity.go
package cart

import (
	"time"

	"gorm.io/gorm"
)

// CartItem represents a cart line stored in the database for authenticated users
type CartItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_cart_user_book,unique" json:"user_id"`
	BookID    uint           `gorm:"not null;index:idx_cart_user_book,unique" json:"book_id"`
	Quantity  int            `gorm:"not null;default:1" json:"quantity"`
	Price     int64          `gorm:"not null" json:"price"` // Price at time of adding, in kobo
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (CartItem) TableName() string {
	return "cart_items"
}

// GuestCart represents a pre-authentication cart stored in Redis
type GuestCart struct {
	SessionID string          `json:"session_id"`
	Items     []GuestCartItem `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// GuestCartItem represents a cart line for guest users
type GuestCartItem struct {
	BookID   uint      `json:"book_id"`
	Quantity int       `json:"quantity"`
	Price    int64     `json:"price"`
	AddedAt  time.Time `json:"added_at"`
}

// TransferItem is one entry of a client-held guest cart submitted on login.
// Quantity is validated in the service so a single bad line is skipped
// instead of failing the whole transfer.
type TransferItem struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// TransferRequest is the body of POST /cart/transfer-guest. The key is
// cartItems, matching what the storefront posts right after login.
type TransferRequest struct {
	CartItems []TransferItem `json:"cartItems"`
}

// CartTotals represents calculated cart totals
type CartTotals struct {
	ItemCount     int   `json:"item_count"`     // Number of unique items
	TotalQuantity int   `json:"total_quantity"` // Sum of all quantities
	SubTotal      int64 `json:"sub_total"`      // Total before VAT
	TaxAmount     int64 `json:"tax_amount"`
	TotalAmount   int64 `json:"total_amount"` // Final total
}
