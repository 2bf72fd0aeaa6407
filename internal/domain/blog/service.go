// internal/domain/blog/service.go
package blog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles blog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new blog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// PostListRequest represents blog list query parameters
type PostListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=10"`
	Category string `form:"category"`
	Featured *bool  `form:"featured"`
	Search   string `form:"search"`
}

// PostListResponse represents a page of posts
type PostListResponse struct {
	Posts      []Post `json:"posts"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// PostCreateRequest represents post creation data
type PostCreateRequest struct {
	Title         string   `json:"title" binding:"required"`
	Content       string   `json:"content" binding:"required"`
	Excerpt       string   `json:"excerpt"`
	FeaturedImage string   `json:"featured_image"`
	Featured      bool     `json:"featured"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"is_published"`
}

// GetPosts retrieves published posts with filtering and pagination
func (s *Service) GetPosts(req *PostListRequest, includeUnpublished bool) (*PostListResponse, error) {
	var posts []Post
	var total int64

	query := s.db.Model(&Post{})
	if !includeUnpublished {
		query = query.Where("is_published = ?", true)
	}

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.Featured != nil {
		query = query.Where("featured = ?", *req.Featured)
	}
	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ?", searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 50 {
		req.Limit = 10
	}

	offset := (req.Page - 1) * req.Limit
	err := query.
		Order("COALESCE(published_at, created_at) DESC").
		Offset(offset).Limit(req.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve posts: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &PostListResponse{
		Posts:      posts,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetPostBySlug retrieves a published post and bumps its view count
func (s *Service) GetPostBySlug(slug string) (*Post, error) {
	var post Post
	result := s.db.Where("slug = ? AND is_published = ?", slug, true).First(&post)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("post not found")
		}
		return nil, fmt.Errorf("failed to retrieve post: %w", result.Error)
	}

	s.db.Model(&post).UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	post.ViewCount++

	return &post, nil
}

// CreatePost creates a new blog post
func (s *Service) CreatePost(authorID uint, authorName string, req *PostCreateRequest) (*Post, error) {
	tags, err := json.Marshal(req.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	post := Post{
		Title:         req.Title,
		Slug:          generateSlug(req.Title),
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		AuthorID:      authorID,
		AuthorName:    authorName,
		FeaturedImage: req.FeaturedImage,
		Featured:      req.Featured,
		Category:      category,
		Tags:          string(tags),
		IsPublished:   req.IsPublished,
	}
	if req.IsPublished {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &post, nil
}

// UpdatePost updates an existing post
func (s *Service) UpdatePost(postID uint, updates map[string]interface{}) (*Post, error) {
	var post Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("post not found")
	}

	if published, ok := updates["is_published"].(bool); ok && published && post.PublishedAt == nil {
		updates["published_at"] = time.Now().UTC()
	}

	if err := s.db.Model(&post).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &post, nil
}

// DeletePost soft deletes a post
func (s *Service) DeletePost(postID uint) error {
	result := s.db.Delete(&Post{}, postID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

func generateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugCleanup.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return fmt.Sprintf("%s-%d", slug, time.Now().Unix()%100000)
}
