package library

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"github.com/readnwin/readnwin-backend/internal/domain/user"
)

func newLibraryTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &book.Book{}, &Entry{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return &Service{db: db, log: log}
}

func seedReader(t *testing.T, s *Service, id uint) {
	t.Helper()
	require.NoError(t, s.db.Create(&user.User{
		ID:        id,
		Email:     "reader@example.com",
		Password:  "x",
		FirstName: "Ada",
		Role:      user.RoleReader,
	}).Error)
}

func seedBook(t *testing.T, s *Service, id uint, format book.Format) {
	t.Helper()
	require.NoError(t, s.db.Create(&book.Book{
		ID:     id,
		Title:  "Things Fall Apart",
		Slug:   fmt.Sprintf("book-%d", id),
		Price:  150000,
		Format: format,
	}).Error)
}

func TestAssign(t *testing.T) {
	t.Run("assigns books to a user's library", func(t *testing.T) {
		s := newLibraryTestService(t)
		seedReader(t, s, 7)
		seedBook(t, s, 1, book.FormatEbook)
		seedBook(t, s, 2, book.FormatEbook)

		err := s.Assign(7, &AssignRequest{BookIDs: []uint{1, 2}}, 99)
		require.NoError(t, err)

		var entries []Entry
		require.NoError(t, s.db.Where("user_id = ?", 7).Find(&entries).Error)
		require.Len(t, entries, 2)
		assert.Equal(t, string(book.FormatEbook), entries[0].Format)
		assert.Equal(t, StatusUnread, entries[0].Status)
	})

	t.Run("assigning again does not duplicate or reset progress", func(t *testing.T) {
		s := newLibraryTestService(t)
		seedReader(t, s, 7)
		seedBook(t, s, 1, book.FormatEbook)

		require.NoError(t, s.Assign(7, &AssignRequest{BookIDs: []uint{1}}, 99))
		require.NoError(t, s.db.Model(&Entry{}).
			Where("user_id = ? AND book_id = ?", 7, 1).
			Updates(map[string]interface{}{"progress": 40.0, "status": StatusReading}).Error)

		require.NoError(t, s.Assign(7, &AssignRequest{BookIDs: []uint{1}}, 99))

		var entries []Entry
		require.NoError(t, s.db.Where("user_id = ?", 7).Find(&entries).Error)
		require.Len(t, entries, 1)
		assert.Equal(t, 40.0, entries[0].Progress)
		assert.Equal(t, StatusReading, entries[0].Status)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		s := newLibraryTestService(t)
		seedBook(t, s, 1, book.FormatEbook)

		err := s.Assign(7, &AssignRequest{BookIDs: []uint{1}}, 99)
		assert.EqualError(t, err, "user not found")
	})

	t.Run("rejects an unknown book", func(t *testing.T) {
		s := newLibraryTestService(t)
		seedReader(t, s, 7)

		err := s.Assign(7, &AssignRequest{BookIDs: []uint{5}}, 99)
		assert.EqualError(t, err, "book 5 not found")
	})
}
