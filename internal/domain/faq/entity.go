// internal/domain/faq/entity.go
package faq

import (
	"time"
)

// FAQ represents a frequently asked question
type FAQ struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Question   string    `gorm:"not null;size:500" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	Category   string    `gorm:"size:100;default:'general';index" json:"category"`
	Priority   int       `gorm:"default:0" json:"priority"`
	IsActive   bool      `gorm:"default:true;index" json:"is_active"`
	IsFeatured bool      `gorm:"default:false" json:"is_featured"`
	ViewCount  int       `gorm:"default:0" json:"view_count"`
	OrderIndex int       `gorm:"default:0" json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (FAQ) TableName() string { return "faqs" }
