// internal/interfaces/http/handlers/analytics.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/analytics"
	"gorm.io/gorm"
)

// AnalyticsHandler handles admin analytics endpoints
type AnalyticsHandler struct {
	analyticsService *analytics.Service
	config           *config.Config
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(db *gorm.DB, cfg *config.Config) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analytics.NewService(db, cfg),
		config:           cfg,
	}
}

// GetDashboardStats handles GET /admin/analytics/dashboard
func (h *AnalyticsHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.analyticsService.GetDashboardStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve dashboard statistics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Dashboard statistics retrieved successfully",
		"data":    stats,
	})
}

// GetSalesAnalytics handles GET /admin/analytics/sales?days=30
func (h *AnalyticsHandler) GetSalesAnalytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	data, err := h.analyticsService.GetSalesAnalytics(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sales analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales analytics retrieved successfully",
		"data":    data,
	})
}

// GetReadingAnalytics handles GET /admin/analytics/reading?days=30
func (h *AnalyticsHandler) GetReadingAnalytics(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	data, err := h.analyticsService.GetReadingAnalytics(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reading analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reading analytics retrieved successfully",
		"data":    data,
	})
}

// GetCustomerAnalytics handles GET /admin/analytics/customers
func (h *AnalyticsHandler) GetCustomerAnalytics(c *gin.Context) {
	data, err := h.analyticsService.GetCustomerAnalytics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve customer analytics",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer analytics retrieved successfully",
		"data":    data,
	})
}
