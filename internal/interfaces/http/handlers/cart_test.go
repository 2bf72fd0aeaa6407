// internal/interfaces/http/handlers/cart_test.go
package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"github.com/readnwin/readnwin-backend/internal/domain/cart"
)

func newCartTestRouter(t *testing.T, userID uint) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&book.Book{}, &cart.CartItem{}))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		Commerce: config.CommerceConfig{
			VATRate: 0.075,
			CartTTL: time.Hour,
		},
	}

	h := NewCartHandler(db, redisClient, cfg, log)

	router := gin.New()
	router.POST("/cart/transfer-guest", func(c *gin.Context) {
		c.Set("user_id", userID)
	}, h.TransferGuestCart)

	return router, db
}

func TestTransferGuestCart(t *testing.T) {
	t.Run("stores the posted cartItems under the user", func(t *testing.T) {
		router, db := newCartTestRouter(t, 7)
		require.NoError(t, db.Create(&book.Book{
			ID: 1, Title: "Things Fall Apart", Slug: "things-fall-apart",
			Price: 150000, IsActive: true,
		}).Error)

		body := `{"cartItems":[{"book_id":1,"quantity":2}]}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart/transfer-guest", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var items []cart.CartItem
		require.NoError(t, db.Where("user_id = ?", 7).Find(&items).Error)
		require.Len(t, items, 1)
		assert.Equal(t, uint(1), items[0].BookID)
		assert.Equal(t, 2, items[0].Quantity)
		assert.Equal(t, int64(150000), items[0].Price)
	})

	t.Run("skips unavailable books without failing the transfer", func(t *testing.T) {
		router, db := newCartTestRouter(t, 7)
		require.NoError(t, db.Create(&book.Book{
			ID: 1, Title: "Things Fall Apart", Slug: "things-fall-apart",
			Price: 150000, IsActive: true,
		}).Error)

		body := `{"cartItems":[{"book_id":1,"quantity":1},{"book_id":99,"quantity":1}]}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart/transfer-guest", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var items []cart.CartItem
		require.NoError(t, db.Where("user_id = ?", 7).Find(&items).Error)
		require.Len(t, items, 1)
		assert.Equal(t, uint(1), items[0].BookID)
	})

	t.Run("empty payload transfers nothing", func(t *testing.T) {
		router, db := newCartTestRouter(t, 7)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/cart/transfer-guest", strings.NewReader(`{"cartItems":[]}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var count int64
		require.NoError(t, db.Model(&cart.CartItem{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}
