// internal/domain/library/entity.go
package library

import (
	"time"

	"github.com/readnwin/readnwin-backend/internal/domain/book"
)

// ReadingStatus represents the reading state of a library entry
type ReadingStatus string

const (
	StatusUnread    ReadingStatus = "unread"
	StatusReading   ReadingStatus = "reading"
	StatusCompleted ReadingStatus = "completed"
)

// Filter buckets for the library view
const (
	FilterAll       = "all"
	FilterReading   = "reading"
	FilterCompleted = "completed"
)

// CompletionThreshold is the progress percentage at which a book counts as
// finished. Below 100 to account for end matter like "About the Author".
const CompletionThreshold = 98.0

// Entry represents a book in a user's library
type Entry struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	UserID           uint          `gorm:"not null;index;uniqueIndex:idx_library_user_book" json:"user_id"`
	BookID           uint          `gorm:"not null;index;uniqueIndex:idx_library_user_book" json:"book_id"`
	Format           string        `gorm:"size:20;default:'ebook'" json:"format"`
	Status           ReadingStatus `gorm:"size:20;default:'unread';index" json:"status"`
	Progress         float64       `gorm:"default:0" json:"progress"` // Percent, 0-100
	LastReadLocation string        `gorm:"type:text" json:"last_read_location,omitempty"`
	LastReadAt       *time.Time    `json:"last_read_at"`
	OrderID          *uint         `gorm:"index" json:"order_id,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Book *book.Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName overrides the table name
func (Entry) TableName() string { return "user_library" }

// IsCompleted reports whether the entry counts as finished. Either the
// progress crossed the completion threshold or the status was set to
// completed explicitly.
func (e *Entry) IsCompleted() bool {
	return e.Progress >= CompletionThreshold || e.Status == StatusCompleted
}

// IsReading reports whether the entry is in progress but not yet finished
func (e *Entry) IsReading() bool {
	return !e.IsCompleted() && e.Progress > 0
}

// MatchesFilter reports whether the entry belongs to the given bucket.
// Every entry matches "all"; untouched entries (progress 0, unread) match
// nothing else.
func (e *Entry) MatchesFilter(filter string) bool {
	switch filter {
	case FilterCompleted:
		return e.IsCompleted()
	case FilterReading:
		return e.IsReading()
	default:
		return true
	}
}
