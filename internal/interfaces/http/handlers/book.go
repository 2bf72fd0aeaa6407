// internal/interfaces/http/handlers/book.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"gorm.io/gorm"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *book.Service
	config      *config.Config
}

// NewBookHandler creates a new book handler
func NewBookHandler(db *gorm.DB, cfg *config.Config) *BookHandler {
	return &BookHandler{
		bookService: book.NewService(db, cfg),
		config:      cfg,
	}
}

// GetBooks handles GET /books
func (h *BookHandler) GetBooks(c *gin.Context) {
	var req book.BookListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.bookService.GetBooks(&req, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    response,
	})
}

// GetBook handles GET /books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	b, err := h.bookService.GetBook(uint(bookID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Book not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    b,
	})
}

// GetBookBySlug handles GET /books/slug/:slug
func (h *BookHandler) GetBookBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Book slug is required",
		})
		return
	}

	b, err := h.bookService.GetBookBySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Book not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    b,
	})
}

// GetCategories handles GET /books/categories
func (h *BookHandler) GetCategories(c *gin.Context) {
	categories, err := h.bookService.GetCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve categories",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// Admin endpoints

// ListBooks handles GET /admin/books - includes inactive titles
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req book.BookListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.bookService.GetBooks(&req, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    response,
	})
}

// CreateBook handles POST /admin/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req book.BookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.CreateBook(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"data":    b,
	})
}

// UpdateBook handles PUT /admin/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	var req book.BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.UpdateBook(uint(bookID), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"data":    b,
	})
}

// DeleteBook handles DELETE /admin/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid book ID",
		})
		return
	}

	if err := h.bookService.DeleteBook(uint(bookID)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book deleted successfully",
	})
}
