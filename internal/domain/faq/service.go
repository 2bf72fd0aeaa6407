// internal/domain/faq/service.go
package faq

import (
	"fmt"

	"github.com/readnwin/readnwin-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles FAQ business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new FAQ service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// FAQListResponse represents the public FAQ listing
type FAQListResponse struct {
	FAQs  []FAQ `json:"faqs"`
	Total int   `json:"total"`
}

// FAQCreateRequest represents FAQ creation data
type FAQCreateRequest struct {
	Question   string `json:"question" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
	Category   string `json:"category"`
	Priority   int    `json:"priority"`
	IsActive   *bool  `json:"is_active"`
	IsFeatured bool   `json:"is_featured"`
	OrderIndex int    `json:"order_index"`
}

// GetFAQs retrieves FAQs ordered by priority then display order. Public
// callers only see active entries.
func (s *Service) GetFAQs(category string, includeInactive bool) (*FAQListResponse, error) {
	var faqs []FAQ

	query := s.db.Model(&FAQ{})
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	err := query.Order("priority DESC, order_index ASC").Find(&faqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve FAQs: %w", err)
	}

	return &FAQListResponse{
		FAQs:  faqs,
		Total: len(faqs),
	}, nil
}

// CreateFAQ creates a new FAQ entry
func (s *Service) CreateFAQ(req *FAQCreateRequest) (*FAQ, error) {
	category := req.Category
	if category == "" {
		category = "general"
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	entry := FAQ{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   category,
		Priority:   req.Priority,
		IsActive:   isActive,
		IsFeatured: req.IsFeatured,
		OrderIndex: req.OrderIndex,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create FAQ: %w", err)
	}

	return &entry, nil
}

// UpdateFAQ updates an existing FAQ
func (s *Service) UpdateFAQ(faqID uint, updates map[string]interface{}) (*FAQ, error) {
	var entry FAQ
	if err := s.db.First(&entry, faqID).Error; err != nil {
		return nil, fmt.Errorf("FAQ not found")
	}

	if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update FAQ: %w", err)
	}

	return &entry, nil
}

// DeleteFAQ removes an FAQ entry
func (s *Service) DeleteFAQ(faqID uint) error {
	result := s.db.Delete(&FAQ{}, faqID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete FAQ: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("FAQ not found")
	}
	return nil
}
