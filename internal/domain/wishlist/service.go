package wishlist

import (
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"gorm.io/gorm"
)

// Service handles wishlist business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// WishlistItemResponse represents a wishlist item with book details
type WishlistItemResponse struct {
	ID            uint       `json:"id"`
	BookID        uint       `json:"book_id"`
	Book          *book.Book `json:"book,omitempty"`
	AddedAt       time.Time  `json:"added_at"`
	IsAvailable   bool       `json:"is_available"`
	CurrentPrice  int64      `json:"current_price"`
	PriceChanged  bool       `json:"price_changed"`
	OriginalPrice int64      `json:"original_price,omitempty"`
}

// WishlistResponse represents a wishlist with items
type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	Count int                    `json:"count"`
}

// AddToWishlistRequest represents add to wishlist request
type AddToWishlistRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}

// GetWishlist retrieves a user's wishlist with current book details
func (s *Service) GetWishlist(userID uint) (*WishlistResponse, error) {
	var items []WishlistItem
	err := s.db.
		Preload("Book").
		Preload("Book.Category").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist: %w", err)
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = WishlistItemResponse{
			ID:      item.ID,
			BookID:  item.BookID,
			Book:    item.Book,
			AddedAt: item.AddedAt,
		}
		if item.Book != nil {
			responses[i].IsAvailable = item.Book.IsActive
			responses[i].CurrentPrice = item.Book.Price
		}
	}

	return &WishlistResponse{
		Items: responses,
		Count: len(responses),
	}, nil
}

// AddToWishlist saves a book for later. Adding a book twice is a no-op.
func (s *Service) AddToWishlist(userID uint, req *AddToWishlistRequest) error {
	var b book.Book
	if err := s.db.Where("id = ? AND is_active = ?", req.BookID, true).First(&b).Error; err != nil {
		return fmt.Errorf("book not found or unavailable")
	}

	var existing WishlistItem
	result := s.db.Where("user_id = ? AND book_id = ?", userID, req.BookID).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	item := WishlistItem{
		UserID:  userID,
		BookID:  req.BookID,
		AddedAt: time.Now().UTC(),
	}
	if err := s.db.Create(&item).Error; err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}

	return nil
}

// RemoveFromWishlist deletes a book from the wishlist
func (s *Service) RemoveFromWishlist(userID, bookID uint) error {
	result := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&WishlistItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book not in wishlist")
	}
	return nil
}

// IsInWishlist reports whether the user has saved the book
func (s *Service) IsInWishlist(userID, bookID uint) bool {
	var count int64
	s.db.Model(&WishlistItem{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count)
	return count > 0
}
