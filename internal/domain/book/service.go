// internal/domain/book/service.go
package book

import (
	"fmt"
	"strings"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new book service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// BookListRequest represents catalog list query parameters
type BookListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	Format     string `form:"format"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsFeatured *bool  `form:"is_featured"`
}

// BookCreateRequest represents book creation data
type BookCreateRequest struct {
	Title            string `json:"title" binding:"required"`
	AuthorName       string `json:"author_name"`
	AuthorID         *uint  `json:"author_id"`
	Description      string `json:"description"`
	Price            int64  `json:"price" binding:"required"`
	Format           Format `json:"format"`
	CoverImageURL    string `json:"cover_image_url"`
	CategoryID       *uint  `json:"category_id"`
	ISBN             string `json:"isbn"`
	Language         string `json:"language"`
	PageCount        int    `json:"page_count"`
	IsActive         bool   `json:"is_active"`
	IsFeatured       bool   `json:"is_featured"`
	InventoryEnabled bool   `json:"inventory_enabled"`
	StockQuantity    int    `json:"stock_quantity"`
}

// BookUpdateRequest represents book update data
type BookUpdateRequest struct {
	Title            *string `json:"title"`
	AuthorName       *string `json:"author_name"`
	Description      *string `json:"description"`
	Price            *int64  `json:"price"`
	Format           *Format `json:"format"`
	CoverImageURL    *string `json:"cover_image_url"`
	CategoryID       *uint   `json:"category_id"`
	ISBN             *string `json:"isbn"`
	Language         *string `json:"language"`
	PageCount        *int    `json:"page_count"`
	IsActive         *bool   `json:"is_active"`
	IsFeatured       *bool   `json:"is_featured"`
	InventoryEnabled *bool   `json:"inventory_enabled"`
	StockQuantity    *int    `json:"stock_quantity"`
}

// BookListResponse represents catalog response with pagination
type BookListResponse struct {
	Books      []Book     `json:"books"`
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

// GetBooks retrieves books with filtering and pagination. Only active books
// are returned unless includeInactive is set (admin listings).
func (s *Service) GetBooks(req *BookListRequest, includeInactive bool) (*BookListResponse, error) {
	var books []Book
	var total int64

	query := s.db.Model(&Book{}).Preload("Category")

	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Format != "" {
		query = query.Where("format = ?", req.Format)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author_name) LIKE ? OR LOWER(description) LIKE ?",
			search, search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 20
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &BookListResponse{
		Books:      books,
		Pagination: pagination,
	}, nil
}

// GetBook retrieves a single active book by ID
func (s *Service) GetBook(id uint) (*Book, error) {
	var b Book
	result := s.db.Preload("Category").Where("id = ? AND is_active = ?", id, true).First(&b)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}
	return &b, nil
}

// GetBookBySlug retrieves a single active book by slug
func (s *Service) GetBookBySlug(slug string) (*Book, error) {
	var b Book
	result := s.db.Preload("Category").Where("slug = ? AND is_active = ?", slug, true).First(&b)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}
	return &b, nil
}

// CreateBook creates a new catalog entry
func (s *Service) CreateBook(req *BookCreateRequest) (*Book, error) {
	if req.Price < 0 {
		return nil, fmt.Errorf("price cannot be negative")
	}

	format := req.Format
	if format == "" {
		format = FormatEbook
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	b := Book{
		Title:            req.Title,
		Slug:             s.generateSlug(req.Title),
		AuthorName:       req.AuthorName,
		AuthorID:         req.AuthorID,
		Description:      req.Description,
		Price:            req.Price,
		Format:           format,
		CoverImageURL:    req.CoverImageURL,
		CategoryID:       req.CategoryID,
		ISBN:             req.ISBN,
		Language:         language,
		PageCount:        req.PageCount,
		IsActive:         req.IsActive,
		IsFeatured:       req.IsFeatured,
		InventoryEnabled: req.InventoryEnabled,
		StockQuantity:    req.StockQuantity,
	}

	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return &b, nil
}

// UpdateBook updates an existing catalog entry
func (s *Service) UpdateBook(id uint, req *BookUpdateRequest) (*Book, error) {
	var b Book
	if err := s.db.Where("id = ?", id).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}

	updates := map[string]interface{}{}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.AuthorName != nil {
		updates["author_name"] = *req.AuthorName
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, fmt.Errorf("price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Format != nil {
		updates["format"] = *req.Format
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = *req.CoverImageURL
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.ISBN != nil {
		updates["isbn"] = *req.ISBN
	}
	if req.Language != nil {
		updates["language"] = *req.Language
	}
	if req.PageCount != nil {
		updates["page_count"] = *req.PageCount
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.InventoryEnabled != nil {
		updates["inventory_enabled"] = *req.InventoryEnabled
	}
	if req.StockQuantity != nil {
		updates["stock_quantity"] = *req.StockQuantity
	}

	if len(updates) > 0 {
		if err := s.db.Model(&b).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
	}

	return &b, nil
}

// DeleteBook soft-deletes a catalog entry
func (s *Service) DeleteBook(id uint) error {
	result := s.db.Delete(&Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book not found")
	}
	return nil
}

// DecrementStock reduces stock for a tracked physical book. No-op for digital
// books or books without inventory tracking.
func (s *Service) DecrementStock(tx *gorm.DB, bookID uint, quantity int) error {
	var b Book
	if err := tx.Where("id = ?", bookID).First(&b).Error; err != nil {
		return fmt.Errorf("failed to load book %d: %w", bookID, err)
	}

	if !b.Format.IsPhysical() || !b.InventoryEnabled {
		return nil
	}

	if b.StockQuantity < quantity {
		return fmt.Errorf("insufficient stock for '%s'. Available: %d, Requested: %d",
			b.Title, b.StockQuantity, quantity)
	}

	return tx.Model(&Book{}).Where("id = ?", bookID).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity)).Error
}

// GetCategories lists active categories ordered for display
func (s *Service) GetCategories() ([]Category, error) {
	var categories []Category
	err := s.db.Where("is_active = ?", true).
		Order("sort_order asc, name asc").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"title":      true,
		"price":      true,
		"created_at": true,
		"updated_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// generateSlug generates URL-friendly slug from a title
func (s *Service) generateSlug(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	var cleaned strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			cleaned.WriteRune(r)
		}
	}

	return cleaned.String() + "-" + fmt.Sprintf("%d", time.Now().Unix())
}
