// internal/domain/library/service.go
package library

import (
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles user library business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new library service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{db: db, config: cfg, log: log}
}

// LibraryResponse represents a user's library with bucket counts
type LibraryResponse struct {
	Entries []Entry       `json:"entries"`
	Counts  LibraryCounts `json:"counts"`
	Filter  string        `json:"filter"`
}

// LibraryCounts holds per-bucket entry counts for the full library,
// independent of the active filter
type LibraryCounts struct {
	All       int `json:"all"`
	Reading   int `json:"reading"`
	Completed int `json:"completed"`
}

// ProgressUpdateRequest represents a reading progress update
type ProgressUpdateRequest struct {
	Progress         float64 `json:"progress" binding:"min=0,max=100"`
	LastReadLocation string  `json:"last_read_location,omitempty"`
}

// GetLibrary retrieves a user's library filtered by bucket. Counts always
// cover the whole library so filter tabs can show totals.
func (s *Service) GetLibrary(userID uint, filter string) (*LibraryResponse, error) {
	if filter != FilterAll && filter != FilterReading && filter != FilterCompleted {
		filter = FilterAll
	}

	var entries []Entry
	err := s.db.
		Preload("Book").
		Preload("Book.Category").
		Where("user_id = ?", userID).
		Order("COALESCE(last_read_at, created_at) DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve library: %w", err)
	}

	counts := LibraryCounts{All: len(entries)}
	filtered := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsCompleted() {
			counts.Completed++
		} else if entry.IsReading() {
			counts.Reading++
		}
		if entry.MatchesFilter(filter) {
			filtered = append(filtered, entry)
		}
	}

	return &LibraryResponse{
		Entries: filtered,
		Counts:  counts,
		Filter:  filter,
	}, nil
}

// GetEntry retrieves a single library entry for a user's book
func (s *Service) GetEntry(userID, bookID uint) (*Entry, error) {
	var entry Entry
	result := s.db.
		Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&entry)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not in library")
		}
		return nil, fmt.Errorf("failed to retrieve library entry: %w", result.Error)
	}
	return &entry, nil
}

// HasAccess reports whether a user owns the book in their library
func (s *Service) HasAccess(userID, bookID uint) bool {
	var count int64
	s.db.Model(&Entry{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count)
	return count > 0
}

// UpdateProgress updates reading progress for a library entry. Crossing the
// completion threshold flips the status to completed; a completed status is
// never reverted by a lower progress report.
func (s *Service) UpdateProgress(userID, bookID uint, req *ProgressUpdateRequest) (*Entry, error) {
	entry, err := s.GetEntry(userID, bookID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Progress = req.Progress
	entry.LastReadAt = &now
	if req.LastReadLocation != "" {
		entry.LastReadLocation = req.LastReadLocation
	}

	if req.Progress >= CompletionThreshold {
		entry.Status = StatusCompleted
	} else if req.Progress > 0 && entry.Status != StatusCompleted {
		entry.Status = StatusReading
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return entry, nil
}

// Grant adds a book to a user's library. Existing entries are left intact so
// re-purchasing never resets reading progress.
func (s *Service) Grant(tx *gorm.DB, userID, bookID uint, format string, orderID *uint) error {
	if tx == nil {
		tx = s.db
	}

	var existing Entry
	result := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	entry := Entry{
		UserID:  userID,
		BookID:  bookID,
		Format:  format,
		Status:  StatusUnread,
		OrderID: orderID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to grant library access: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"book_id": bookID,
	}).Info("Library access granted")

	return nil
}

// GrantOrderItems grants library access for every digital line of a paid
// order
func (s *Service) GrantOrderItems(tx *gorm.DB, userID uint, orderID uint, items []OrderLine) error {
	for _, item := range items {
		if item.Format != string(book.FormatEbook) && item.Format != string(book.FormatBoth) {
			continue
		}
		oid := orderID
		if err := s.Grant(tx, userID, item.BookID, "ebook", &oid); err != nil {
			return err
		}
	}
	return nil
}

// OrderLine is the minimal order item shape needed for granting access,
// kept local to avoid importing the order package
type OrderLine struct {
	BookID uint
	Format string
}

// AssignRequest is an admin grant of books to a user's library, outside any
// purchase (review copies, prizes, support fixes)
type AssignRequest struct {
	BookIDs []uint `json:"book_ids" binding:"required,min=1"`
	Format  string `json:"format,omitempty"`
}

// Assign grants the listed books to a user. An unknown book fails the whole
// request so the admin sees the bad ID; books already owned are left intact.
func (s *Service) Assign(userID uint, req *AssignRequest, assignedBy uint) error {
	var userCount int64
	if err := s.db.Table("users").Where("id = ?", userID).Count(&userCount).Error; err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if userCount == 0 {
		return fmt.Errorf("user not found")
	}

	format := req.Format
	if format == "" {
		format = string(book.FormatEbook)
	}

	for _, bookID := range req.BookIDs {
		var b book.Book
		if err := s.db.Where("id = ?", bookID).First(&b).Error; err != nil {
			return fmt.Errorf("book %d not found", bookID)
		}
		if err := s.Grant(nil, userID, bookID, format, nil); err != nil {
			return err
		}
	}

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"book_ids":    req.BookIDs,
		"assigned_by": assignedBy,
	}).Info("Library entries assigned")

	return nil
}

// Remove deletes a library entry
func (s *Service) Remove(userID, bookID uint) error {
	result := s.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&Entry{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove library entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book not in library")
	}
	return nil
}

// RecentlyRead returns the most recently opened entries, for the dashboard
func (s *Service) RecentlyRead(userID uint, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var entries []Entry
	err := s.db.
		Preload("Book").
		Where("user_id = ? AND last_read_at IS NOT NULL", userID).
		Order("last_read_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reading activity: %w", err)
	}
	return entries, nil
}
