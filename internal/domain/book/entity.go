// internal/domain/book/entity.go
package book

import (
	"time"

	"gorm.io/gorm"
)

// Format describes how a book can be delivered
type Format string

const (
	FormatEbook    Format = "ebook"
	FormatPhysical Format = "physical"
	FormatBoth     Format = "both"
)

// IsDigital reports whether the format includes an ebook edition
func (f Format) IsDigital() bool {
	return f == FormatEbook || f == FormatBoth
}

// IsPhysical reports whether the format includes a printed edition
func (f Format) IsPhysical() bool {
	return f == FormatPhysical || f == FormatBoth
}

// Book represents a title in the store catalog
type Book struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"not null;size:255" json:"title"`
	Slug          string `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	AuthorName    string `gorm:"size:255" json:"author_name"`
	AuthorID      *uint  `gorm:"index" json:"author_id"` // Platform author account, if any
	Description   string `gorm:"type:text" json:"description"`
	Price         int64  `gorm:"not null" json:"price"` // Price in kobo
	Format        Format `gorm:"size:20;default:'ebook'" json:"format"`
	CoverImageURL string `gorm:"size:500" json:"cover_image_url"`
	CategoryID    *uint  `gorm:"index" json:"category_id"`
	ISBN          string `gorm:"size:20" json:"isbn"`
	Language      string `gorm:"size:10;default:'en'" json:"language"`
	PageCount     int    `json:"page_count"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
	IsFeatured    bool   `gorm:"default:false" json:"is_featured"`

	// Inventory applies only to physical editions
	InventoryEnabled bool `gorm:"default:false" json:"inventory_enabled"`
	StockQuantity    int  `gorm:"default:0" json:"stock_quantity"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`
}

// Category represents book categories
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Slug        string         `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string         `gorm:"size:500" json:"description"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Books []Book `gorm:"foreignKey:CategoryID" json:"books,omitempty"`
}

// TableName overrides the table name
func (Book) TableName() string {
	return "books"
}

// TableName overrides the table name
func (Category) TableName() string {
	return "book_categories"
}

// InStock reports whether the requested quantity can be fulfilled. Digital-only
// books are always in stock; physical books are limited only when inventory
// tracking is enabled.
func (b *Book) InStock(quantity int) bool {
	if !b.Format.IsPhysical() {
		return true
	}
	if !b.InventoryEnabled {
		return true
	}
	return b.StockQuantity >= quantity
}
