// internal/interfaces/http/handlers/faq.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/faq"
	"gorm.io/gorm"
)

// FAQHandler handles FAQ endpoints
type FAQHandler struct {
	faqService *faq.Service
	config     *config.Config
}

// NewFAQHandler creates a new FAQ handler
func NewFAQHandler(db *gorm.DB, cfg *config.Config) *FAQHandler {
	return &FAQHandler{
		faqService: faq.NewService(db, cfg),
		config:     cfg,
	}
}

// GetFAQs handles GET /faqs
func (h *FAQHandler) GetFAQs(c *gin.Context) {
	category := c.Query("category")

	response, err := h.faqService.GetFAQs(category, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve FAQs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "FAQs retrieved successfully",
		"data":    response,
	})
}

// Admin endpoints

// ListFAQs handles GET /admin/faqs - includes inactive entries
func (h *FAQHandler) ListFAQs(c *gin.Context) {
	category := c.Query("category")

	response, err := h.faqService.GetFAQs(category, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve FAQs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "FAQs retrieved successfully",
		"data":    response,
	})
}

// CreateFAQ handles POST /admin/faqs
func (h *FAQHandler) CreateFAQ(c *gin.Context) {
	var req faq.FAQCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.faqService.CreateFAQ(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "FAQ created successfully",
		"data":    entry,
	})
}

// UpdateFAQ handles PUT /admin/faqs/:id
func (h *FAQHandler) UpdateFAQ(c *gin.Context) {
	faqID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid FAQ ID",
		})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.faqService.UpdateFAQ(uint(faqID), updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "FAQ updated successfully",
		"data":    entry,
	})
}

// DeleteFAQ handles DELETE /admin/faqs/:id
func (h *FAQHandler) DeleteFAQ(c *gin.Context) {
	faqID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid FAQ ID",
		})
		return
	}

	if err := h.faqService.DeleteFAQ(uint(faqID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "FAQ deleted successfully",
	})
}
