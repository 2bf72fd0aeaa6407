// internal/interfaces/http/handlers/blog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/blog"
	"github.com/readnwin/readnwin-backend/internal/domain/user"
	"github.com/readnwin/readnwin-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// BlogHandler handles blog endpoints
type BlogHandler struct {
	blogService *blog.Service
	db          *gorm.DB
	config      *config.Config
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(db *gorm.DB, cfg *config.Config) *BlogHandler {
	return &BlogHandler{
		blogService: blog.NewService(db, cfg),
		db:          db,
		config:      cfg,
	}
}

// GetPosts handles GET /blog - published posts
func (h *BlogHandler) GetPosts(c *gin.Context) {
	var req blog.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.blogService.GetPosts(&req, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Posts retrieved successfully",
		"data":    response,
	})
}

// GetPostBySlug handles GET /blog/:slug
func (h *BlogHandler) GetPostBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Post slug is required",
		})
		return
	}

	post, err := h.blogService.GetPostBySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Post not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post retrieved successfully",
		"data":    post,
	})
}

// Admin endpoints

// ListPosts handles GET /admin/blog - includes drafts
func (h *BlogHandler) ListPosts(c *gin.Context) {
	var req blog.PostListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	response, err := h.blogService.GetPosts(&req, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Posts retrieved successfully",
		"data":    response,
	})
}

// CreatePost handles POST /admin/blog
func (h *BlogHandler) CreatePost(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req blog.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	var author user.User
	if err := h.db.First(&author, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not found",
		})
		return
	}

	post, err := h.blogService.CreatePost(userID, author.GetFullName(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"data":    post,
	})
}

// UpdatePost handles PUT /admin/blog/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid post ID",
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

	post, err := h.blogService.UpdatePost(uint(postID), updates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"data":    post,
	})
}

// DeletePost handles DELETE /admin/blog/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid post ID",
		})
		return
	}

	if err := h.blogService.DeletePost(uint(postID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted successfully",
	})
}
