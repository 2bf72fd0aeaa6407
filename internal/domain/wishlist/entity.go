package wishlist

import (
	"time"

	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"gorm.io/gorm"
)

// WishlistItem represents a book saved for later
type WishlistItem struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_wishlist_user_book" json:"user_id"`
	BookID    uint           `gorm:"not null;index;uniqueIndex:idx_wishlist_user_book" json:"book_id"`
	AddedAt   time.Time      `json:"added_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Book *book.Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName overrides the table name
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
