// internal/domain/blog/entity.go
package blog

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null;size:255" json:"title"`
	Slug          string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Content       string         `gorm:"type:text" json:"content,omitempty"`
	Excerpt       string         `gorm:"type:text" json:"excerpt"`
	AuthorID      uint           `gorm:"not null;index" json:"author_id"`
	AuthorName    string         `gorm:"size:255" json:"author_name"`
	FeaturedImage string         `gorm:"size:500" json:"featured_image,omitempty"`
	Featured      bool           `gorm:"default:false" json:"featured"`
	Category      string         `gorm:"size:100;default:'general';index" json:"category"`
	Tags          string         `gorm:"type:text" json:"tags,omitempty"` // JSON-encoded list
	IsPublished   bool           `gorm:"default:false;index" json:"is_published"`
	PublishedAt   *time.Time     `json:"published_at"`
	ViewCount     int            `gorm:"default:0" json:"view_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Post) TableName() string { return "blog_posts" }
