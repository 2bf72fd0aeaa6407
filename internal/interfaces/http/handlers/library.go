// internal/interfaces/http/handlers/library.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/library"
	"github.com/readnwin/readnwin-backend/internal/interfaces/http/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LibraryHandler handles reader library endpoints
type LibraryHandler struct {
	libraryService *library.Service
	config         *config.Config
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *LibraryHandler {
	return &LibraryHandler{
		libraryService: library.NewService(db, cfg, log),
		config:         cfg,
	}
}

// GetLibrary handles GET /user/library?filter=all|reading|completed
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	filter := c.DefaultQuery("filter", library.FilterAll)

	response, err := h.libraryService.GetLibrary(userID, filter)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Library retrieved successfully",
		"data":    response,
	})
}

// GetEntry handles GET /user/library/:bookId
func (h *LibraryHandler) GetEntry(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	entry, err := h.libraryService.GetEntry(userID, uint(bookID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Book not in library",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Library entry retrieved successfully",
		"data":    entry,
	})
}

// UpdateProgress handles PUT /user/library/:bookId/progress
func (h *LibraryHandler) UpdateProgress(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	var req library.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.libraryService.UpdateProgress(userID, uint(bookID), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reading progress updated successfully",
		"data":    entry,
	})
}

// RemoveEntry handles DELETE /user/library/:bookId
func (h *LibraryHandler) RemoveEntry(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	if err := h.libraryService.Remove(userID, uint(bookID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book removed from library successfully",
	})
}

// AssignToUser handles POST /admin/users/:id/library
func (h *LibraryHandler) AssignToUser(c *gin.Context) {
	adminID, _ := middleware.GetUserIDFromContext(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	var req library.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.libraryService.Assign(uint(userID), &req, adminID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books assigned to user library successfully",
	})
}

// GetUserLibrary handles GET /admin/users/:id/library
func (h *LibraryHandler) GetUserLibrary(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	filter := c.DefaultQuery("filter", library.FilterAll)

	response, err := h.libraryService.GetLibrary(uint(userID), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve user library",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User library retrieved successfully",
		"data":    response,
	})
}

// RemoveFromUser handles DELETE /admin/users/:id/library/:bookId
func (h *LibraryHandler) RemoveFromUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID",
		})
		return
	}

	bookID, err := strconv.ParseUint(c.Param("bookId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	if err := h.libraryService.Remove(uint(userID), uint(bookID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book removed from user library successfully",
	})
}

// GetRecentlyRead handles GET /user/library/recent
func (h *LibraryHandler) GetRecentlyRead(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	entries, err := h.libraryService.RecentlyRead(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve recently read books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recently read books retrieved successfully",
		"data":    entries,
	})
}
