// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	log         *logrus.Logger
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		log:         log,
	}
}

// CartItemResponse represents a cart line with book details
type CartItemResponse struct {
	BookID   uint       `json:"book_id"`
	Quantity int        `json:"quantity"`
	Price    int64      `json:"price"`
	Book     *book.Book `json:"book,omitempty"`
	AddedAt  time.Time  `json:"added_at"`
}

// CartResponse represents a shopping cart with items and totals
type CartResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	UserID    *uint              `json:"user_id,omitempty"`
	Items     []CartItemResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CalculateTotals computes cart totals from line items. VAT is rounded to the
// nearest kobo, half away from zero.
func CalculateTotals(items []CartItemResponse, vatRate float64) CartTotals {
	var totals CartTotals

	totals.ItemCount = len(items)

	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Price * int64(item.Quantity)
	}

	totals.TaxAmount = int64(math.Round(float64(totals.SubTotal) * vatRate))
	totals.TotalAmount = totals.SubTotal + totals.TaxAmount

	return totals
}

// GetCart retrieves the cart for a user or guest session
func (s *Service) GetCart(userID *uint, sessionID string) (*CartResponse, error) {
	var cartItems []CartItemResponse
	var updatedAt time.Time

	if userID != nil {
		var dbItems []CartItem
		err := s.db.Where("user_id = ?", *userID).Order("created_at asc").Find(&dbItems).Error
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve user cart: %w", err)
		}

		cartItems = make([]CartItemResponse, len(dbItems))
		for i, item := range dbItems {
			cartItems[i] = CartItemResponse{
				BookID:   item.BookID,
				Quantity: item.Quantity,
				Price:    item.Price,
				AddedAt:  item.CreatedAt,
			}
			if item.UpdatedAt.After(updatedAt) {
				updatedAt = item.UpdatedAt
			}
		}
	} else {
		guestCart, err := s.getGuestCart(sessionID)
		if err != nil {
			return nil, err
		}

		cartItems = make([]CartItemResponse, len(guestCart.Items))
		for i, item := range guestCart.Items {
			cartItems[i] = CartItemResponse{
				BookID:   item.BookID,
				Quantity: item.Quantity,
				Price:    item.Price,
				AddedAt:  item.AddedAt,
			}
		}
		updatedAt = guestCart.UpdatedAt
	}

	if err := s.loadBookDetails(cartItems); err != nil {
		return nil, err
	}

	return &CartResponse{
		SessionID: sessionID,
		UserID:    userID,
		Items:     cartItems,
		Totals:    CalculateTotals(cartItems, s.config.Commerce.VATRate),
		UpdatedAt: updatedAt,
	}, nil
}

// AddToCart adds a book to the cart
func (s *Service) AddToCart(userID *uint, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	var b book.Book
	result := s.db.Where("id = ? AND is_active = ?", req.BookID, true).First(&b)
	if result.Error != nil {
		return nil, fmt.Errorf("book not found or unavailable")
	}

	if !b.InStock(req.Quantity) {
		return nil, fmt.Errorf("insufficient stock for '%s'. Available: %d", b.Title, b.StockQuantity)
	}

	if userID != nil {
		if err := s.addToUserCart(*userID, &b, req.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.addToGuestCart(sessionID, &b, req.Quantity); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID, sessionID)
}

// UpdateCartItem updates the quantity of a cart line; zero removes it
func (s *Service) UpdateCartItem(userID *uint, sessionID string, bookID uint, req *UpdateCartItemRequest) (*CartResponse, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	if req.Quantity > 0 {
		var b book.Book
		if err := s.db.Where("id = ?", bookID).First(&b).Error; err != nil {
			return nil, fmt.Errorf("book not found")
		}
		if !b.InStock(req.Quantity) {
			return nil, fmt.Errorf("insufficient stock for '%s'. Available: %d", b.Title, b.StockQuantity)
		}
	}

	if userID != nil {
		if err := s.updateUserCartItem(*userID, bookID, req.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.updateGuestCartItem(sessionID, bookID, req.Quantity); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID, sessionID)
}

// RemoveFromCart removes a book from the cart
func (s *Service) RemoveFromCart(userID *uint, sessionID string, bookID uint) (*CartResponse, error) {
	return s.UpdateCartItem(userID, sessionID, bookID, &UpdateCartItemRequest{Quantity: 0})
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(userID *uint, sessionID string) error {
	if userID != nil {
		return s.db.Where("user_id = ?", *userID).Delete(&CartItem{}).Error
	}

	ctx := context.Background()
	return s.redisClient.Del(ctx, guestCartKey(sessionID)).Err()
}

// GetCartItemCount returns the total quantity across cart lines
func (s *Service) GetCartItemCount(userID *uint, sessionID string) (int, error) {
	cartResponse, err := s.GetCart(userID, sessionID)
	if err != nil {
		return 0, nil // Treat a missing cart as empty
	}
	return cartResponse.Totals.TotalQuantity, nil
}

// TransferGuestCart merges a client-held guest cart into the authenticated
// user's cart. Called once right after login. An empty list is a no-op.
// Unknown or inactive books are skipped so one bad entry cannot lose the rest.
func (s *Service) TransferGuestCart(userID uint, items []TransferItem) error {
	if len(items) == 0 {
		return nil
	}

	for _, item := range items {
		if item.Quantity < 1 {
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"book_id": item.BookID,
			}).Warn("Skipping guest cart entry with invalid quantity")
			continue
		}

		var b book.Book
		result := s.db.Where("id = ? AND is_active = ?", item.BookID, true).First(&b)
		if result.Error != nil {
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"book_id": item.BookID,
			}).Warn("Skipping guest cart entry for unavailable book")
			continue
		}

		if err := s.addToUserCart(userID, &b, item.Quantity); err != nil {
			return fmt.Errorf("failed to transfer guest cart item %d: %w", item.BookID, err)
		}
	}

	return nil
}

// MergeGuestCartToUser merges a Redis-held guest session cart into the user
// cart, then clears the session cart.
func (s *Service) MergeGuestCartToUser(userID uint, sessionID string) error {
	guestCart, err := s.getGuestCart(sessionID)
	if err != nil || len(guestCart.Items) == 0 {
		return nil // No guest cart to merge
	}

	for _, item := range guestCart.Items {
		var b book.Book
		result := s.db.Where("id = ? AND is_active = ?", item.BookID, true).First(&b)
		if result.Error != nil {
			continue
		}
		if err := s.addToUserCart(userID, &b, item.Quantity); err != nil {
			return err
		}
	}

	return s.ClearCart(nil, sessionID)
}

// Private helper methods

func (s *Service) addToUserCart(userID uint, b *book.Book, quantity int) error {
	var existingItem CartItem
	result := s.db.Where("user_id = ? AND book_id = ?", userID, b.ID).First(&existingItem)

	if result.Error == gorm.ErrRecordNotFound {
		newItem := CartItem{
			UserID:   userID,
			BookID:   b.ID,
			Quantity: quantity,
			Price:    b.Price,
		}
		return s.db.Create(&newItem).Error
	} else if result.Error != nil {
		return result.Error
	}

	newQuantity := existingItem.Quantity + quantity
	if !b.InStock(newQuantity) {
		return fmt.Errorf("insufficient stock for '%s'. Available: %d", b.Title, b.StockQuantity)
	}

	existingItem.Quantity = newQuantity
	existingItem.Price = b.Price // Refresh price in case it changed
	return s.db.Save(&existingItem).Error
}

func (s *Service) addToGuestCart(sessionID string, b *book.Book, quantity int) error {
	guestCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}

	itemExists := false
	for i := range guestCart.Items {
		if guestCart.Items[i].BookID == b.ID {
			newQuantity := guestCart.Items[i].Quantity + quantity
			if !b.InStock(newQuantity) {
				return fmt.Errorf("insufficient stock for '%s'. Available: %d", b.Title, b.StockQuantity)
			}
			guestCart.Items[i].Quantity = newQuantity
			guestCart.Items[i].Price = b.Price
			itemExists = true
			break
		}
	}

	if !itemExists {
		guestCart.Items = append(guestCart.Items, GuestCartItem{
			BookID:   b.ID,
			Quantity: quantity,
			Price:    b.Price,
			AddedAt:  time.Now().UTC(),
		})
	}

	guestCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(sessionID, guestCart)
}

func (s *Service) updateUserCartItem(userID, bookID uint, quantity int) error {
	if quantity == 0 {
		return s.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&CartItem{}).Error
	}
	return s.db.Model(&CartItem{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Update("quantity", quantity).Error
}

func (s *Service) updateGuestCartItem(sessionID string, bookID uint, quantity int) error {
	guestCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}

	itemFound := false
	for i := range guestCart.Items {
		if guestCart.Items[i].BookID == bookID {
			if quantity == 0 {
				guestCart.Items = append(guestCart.Items[:i], guestCart.Items[i+1:]...)
			} else {
				guestCart.Items[i].Quantity = quantity
			}
			itemFound = true
			break
		}
	}

	if !itemFound {
		return fmt.Errorf("item not found in cart")
	}

	guestCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(sessionID, guestCart)
}

func guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) getGuestCart(sessionID string) (*GuestCart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for guest cart")
	}

	ctx := context.Background()

	cartData, err := s.redisClient.Get(ctx, guestCartKey(sessionID)).Result()
	if err == redis.Nil {
		return &GuestCart{
			SessionID: sessionID,
			Items:     []GuestCartItem{},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}, nil
	} else if err != nil {
		return nil, err
	}

	var guestCart GuestCart
	if err := json.Unmarshal([]byte(cartData), &guestCart); err != nil {
		return nil, err
	}

	return &guestCart, nil
}

func (s *Service) saveGuestCart(sessionID string, cart *GuestCart) error {
	ctx := context.Background()

	cartData, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return s.redisClient.Set(ctx, guestCartKey(sessionID), cartData, s.config.Commerce.CartTTL).Err()
}

func (s *Service) loadBookDetails(cartItems []CartItemResponse) error {
	for i := range cartItems {
		var b book.Book
		err := s.db.Preload("Category").Where("id = ?", cartItems[i].BookID).First(&b).Error
		if err != nil {
			continue // Skip if book not found
		}
		cartItems[i].Book = &b
	}
	return nil
}
