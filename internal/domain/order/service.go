// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"github.com/readnwin/readnwin-backend/internal/domain/cart"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	log         *logrus.Logger
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, log *logrus.Logger) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		log:         log,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	Customer      CustomerInfo `json:"customer" binding:"required"`
	PaymentMethod string       `json:"payment_method" binding:"required"`
	Notes         string       `json:"notes,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	UserID    uint        `form:"user_id"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
	DateFrom  string      `form:"date_from"`
	DateTo    string      `form:"date_to"`
}

// OrderListResponse represents order list with pagination
type OrderListResponse struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateOrder creates a new order from the user's cart. Stock for physical
// books is decremented inside the same transaction. The cart is NOT cleared
// here: it stays intact until the payment gateway confirms success, so a
// failed payment leaves the user free to retry.
func (s *Service) CreateOrder(userID uint, req *CreateOrderRequest) (*Order, error) {
	userIDPtr := &userID
	cartResponse, err := s.cartService.GetCart(userIDPtr, "")
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	if len(cartResponse.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	if err := s.validateCartItems(cartResponse.Items); err != nil {
		return nil, fmt.Errorf("cart validation failed: %w", err)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	newOrder := Order{
		OrderNumber:    GenerateOrderNumber(),
		UserID:         userID,
		Status:         OrderStatusPending,
		PaymentStatus:  PaymentStatusPending,
		PaymentMethod:  req.PaymentMethod,
		Customer:       req.Customer,
		SubtotalAmount: cartResponse.Totals.SubTotal,
		TaxAmount:      cartResponse.Totals.TaxAmount,
		TotalAmount:    cartResponse.Totals.TotalAmount,
		Currency:       s.config.Commerce.Currency,
		Notes:          req.Notes,
	}

	if err := tx.Create(&newOrder).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	bookService := book.NewService(s.db, s.config)
	for _, cartItem := range cartResponse.Items {
		if cartItem.Book == nil {
			tx.Rollback()
			return nil, fmt.Errorf("book %d is no longer available", cartItem.BookID)
		}

		orderItem := OrderItem{
			OrderID:    newOrder.ID,
			BookID:     cartItem.BookID,
			Title:      cartItem.Book.Title,
			AuthorName: cartItem.Book.AuthorName,
			Format:     string(cartItem.Book.Format),
			Quantity:   cartItem.Quantity,
			Price:      cartItem.Price,
			TotalPrice: cartItem.Price * int64(cartItem.Quantity),
		}

		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}

		if err := bookService.DecrementStock(tx, cartItem.BookID, cartItem.Quantity); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	history := OrderStatusHistory{
		OrderID:   newOrder.ID,
		Status:    OrderStatusPending,
		Comment:   "Order created",
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	if err := s.db.Preload("Items").Preload("StatusHistory").First(&newOrder, newOrder.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load complete order: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"order_number": newOrder.OrderNumber,
		"user_id":      userID,
		"total":        newOrder.TotalAmount,
	}).Info("Order created")

	return &newOrder, nil
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderListResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}

	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &OrderListResponse{
		Orders: orders,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("Payments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&o)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// GetOrderByNumber retrieves a single order by order number
func (s *Service) GetOrderByNumber(orderNumber string) (*Order, error) {
	var o Order
	result := s.db.
		Preload("Items").
		Preload("Payments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("order_number = ?", orderNumber).
		First(&o)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// GetUserOrder retrieves an order only if it belongs to the user
func (s *Service) GetUserOrder(userID, orderID uint) (*Order, error) {
	o, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order not found")
	}
	return o, nil
}

// UpdateOrderStatus updates order status with transition validation
func (s *Service) UpdateOrderStatus(orderID uint, status OrderStatus, comment string, updatedBy uint) error {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		return fmt.Errorf("order not found: %w", err)
	}

	if !s.isValidStatusTransition(o.Status, status) {
		return fmt.Errorf("invalid status transition from %s to %s", o.Status, status)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status": status,
	}
	if status == OrderStatusPaid {
		updates["payment_status"] = PaymentStatusPaid
		updates["paid_at"] = now
	}
	if status == OrderStatusFailed {
		updates["payment_status"] = PaymentStatusFailed
	}

	if err := s.db.Model(&o).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		Comment:   comment,
		CreatedBy: updatedBy,
		CreatedAt: now,
	}
	if err := s.db.Create(&statusHistory).Error; err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return nil
}

// CancelOrder cancels a pending order and restores stock
func (s *Service) CancelOrder(orderID uint, reason string, cancelledBy uint) error {
	var o Order
	if err := s.db.First(&o, orderID).Error; err != nil {
		return fmt.Errorf("order not found: %w", err)
	}

	if !o.CanBeCancelled() {
		return fmt.Errorf("order cannot be cancelled in current status: %s", o.Status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := s.restoreStock(tx, orderID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	if err := tx.Model(&o).Update("status", OrderStatusCancelled).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update order status: %w", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    OrderStatusCancelled,
		Comment:   fmt.Sprintf("Order cancelled: %s", reason),
		CreatedBy: cancelledBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&statusHistory).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create status history: %w", err)
	}

	return tx.Commit().Error
}

// GetUserOrders retrieves orders for a specific user
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderListResponse, error) {
	return s.GetOrders(&OrderListRequest{
		Page:      page,
		Limit:     limit,
		UserID:    userID,
		SortBy:    "created_at",
		SortOrder: "desc",
	})
}

// Private helper methods

func (s *Service) validateCartItems(items []cart.CartItemResponse) error {
	for _, item := range items {
		if item.Book == nil {
			return fmt.Errorf("book %d not found", item.BookID)
		}

		if !item.Book.IsActive {
			return fmt.Errorf("'%s' is no longer available", item.Book.Title)
		}

		if !item.Book.InStock(item.Quantity) {
			return fmt.Errorf("insufficient stock for '%s'. Available: %d, Requested: %d",
				item.Book.Title, item.Book.StockQuantity, item.Quantity)
		}
	}
	return nil
}

func (s *Service) restoreStock(tx *gorm.DB, orderID uint) error {
	var orderItems []OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&orderItems).Error; err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}

	for _, item := range orderItems {
		if item.Format == string(book.FormatEbook) {
			continue
		}
		result := tx.Model(&book.Book{}).
			Where("id = ? AND inventory_enabled = ?", item.BookID, true).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity))
		if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

func (s *Service) isValidStatusTransition(from, to OrderStatus) bool {
	validTransitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending: {
			OrderStatusPaid,
			OrderStatusFailed,
			OrderStatusCancelled,
		},
		OrderStatusFailed: {
			OrderStatusPaid,
			OrderStatusCancelled,
		},
		OrderStatusPaid: {
			OrderStatusRefunded,
		},
	}

	allowedStatuses, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowedStatuses {
		if status == to {
			return true
		}
	}
	return false
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"total_amount": true,
		"status":       true,
		"order_number": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
