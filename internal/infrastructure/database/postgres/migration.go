// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/readnwin/readnwin-backend/internal/domain/blog"
	"github.com/readnwin/readnwin-backend/internal/domain/book"
	"github.com/readnwin/readnwin-backend/internal/domain/cart"
	"github.com/readnwin/readnwin-backend/internal/domain/faq"
	"github.com/readnwin/readnwin-backend/internal/domain/library"
	"github.com/readnwin/readnwin-backend/internal/domain/order"
	"github.com/readnwin/readnwin-backend/internal/domain/payment"
	"github.com/readnwin/readnwin-backend/internal/domain/user"
	"github.com/readnwin/readnwin-backend/internal/domain/wishlist"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},

		// Catalog domain - Base tables
		&book.Category{},
		&book.Book{},

		// Cart domain
		&cart.CartItem{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
		&order.Payment{},
		&order.OrderStatusHistory{},

		// Payment gateways
		&payment.PaymentGateway{},

		// Reader library
		&library.Entry{},

		// Wishlist domain
		&wishlist.WishlistItem{},

		// Content
		&blog.Post{},
		&faq.FAQ{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_users_email_verified ON users(email_verified)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Book indexes
		"CREATE INDEX IF NOT EXISTS idx_books_category_active ON books(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_books_featured ON books(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_books_price ON books(price)",
		"CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_books_slug ON books(slug)",
		"CREATE INDEX IF NOT EXISTS idx_books_format ON books(format)",

		// Category indexes
		"CREATE INDEX IF NOT EXISTS idx_book_categories_slug ON book_categories(slug)",
		"CREATE INDEX IF NOT EXISTS idx_book_categories_sort_order ON book_categories(sort_order)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_book ON cart_items(user_id, book_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_created_at ON cart_items(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_orders_payment_reference ON orders(payment_reference)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_book ON order_items(book_id)",

		// Payment indexes
		"CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_transaction_ref ON payments(transaction_ref)",
		"CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_gateway ON payments(gateway)",
		"CREATE INDEX IF NOT EXISTS idx_payments_order_status ON payments(order_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_payments_created_at ON payments(created_at DESC)",

		// Order status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_status ON order_status_history(status)",

		// Library indexes
		"CREATE INDEX IF NOT EXISTS idx_user_library_user ON user_library(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_user_library_user_status ON user_library(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_user_library_last_read ON user_library(user_id, last_read_at DESC)",

		// Wishlist indexes
		"CREATE INDEX IF NOT EXISTS idx_wishlist_items_user ON wishlist_items(user_id)",

		// Blog indexes
		"CREATE INDEX IF NOT EXISTS idx_blog_posts_slug ON blog_posts(slug)",
		"CREATE INDEX IF NOT EXISTS idx_blog_posts_published ON blog_posts(is_published, published_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_blog_posts_category ON blog_posts(category)",

		// FAQ indexes
		"CREATE INDEX IF NOT EXISTS idx_faqs_active_priority ON faqs(is_active, priority DESC)",
		"CREATE INDEX IF NOT EXISTS idx_faqs_category ON faqs(category)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedPaymentGateways(); err != nil {
		return fmt.Errorf("failed to seed payment gateways: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

// SeedDevelopmentData inserts sample data for local development
func (m *Migration) SeedDevelopmentData() error {
	log.Println("🌱 Seeding development data...")

	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	if err := m.seedSampleBooks(); err != nil {
		return fmt.Errorf("failed to seed sample books: %w", err)
	}

	log.Println("✅ Development data seeded successfully")
	return nil
}

// seedCategories creates default book categories
func (m *Migration) seedCategories() error {
	log.Println("🏷️ Seeding categories...")

	categories := []book.Category{
		{
			Name:        "Fiction",
			Slug:        "fiction",
			Description: "Novels, short stories, and literary fiction",
			SortOrder:   1,
			IsActive:    true,
		},
		{
			Name:        "Non-Fiction",
			Slug:        "non-fiction",
			Description: "Biographies, history, and essays",
			SortOrder:   2,
			IsActive:    true,
		},
		{
			Name:        "Business",
			Slug:        "business",
			Description: "Entrepreneurship, finance, and management",
			SortOrder:   3,
			IsActive:    true,
		},
		{
			Name:        "Self Development",
			Slug:        "self-development",
			Description: "Personal growth and productivity",
			SortOrder:   4,
			IsActive:    true,
		},
		{
			Name:        "African Literature",
			Slug:        "african-literature",
			Description: "Contemporary and classic African writing",
			SortOrder:   5,
			IsActive:    true,
		},
		{
			Name:        "Children",
			Slug:        "children",
			Description: "Books for young readers",
			SortOrder:   6,
			IsActive:    true,
		},
	}

	for _, category := range categories {
		var existing book.Category
		result := m.db.Where("slug = ?", category.Slug).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️ Category already exists: %s", category.Name)
		}
	}

	return nil
}

// seedPaymentGateways ensures the configured gateways exist so checkout
// always has at least one payment option
func (m *Migration) seedPaymentGateways() error {
	log.Println("💳 Seeding payment gateways...")

	for _, gateway := range payment.DefaultGateways() {
		var existing payment.PaymentGateway
		result := m.db.Where("id = ?", gateway.ID).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&gateway).Error; err != nil {
				return err
			}
			log.Printf("✅ Created payment gateway: %s", gateway.Name)
		} else {
			log.Printf("⏭️ Payment gateway already exists: %s", gateway.Name)
		}
	}

	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@readnwin.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:         "admin@readnwin.com",
			Password:      string(hashedPassword),
			FirstName:     "Admin",
			LastName:      "User",
			Role:          user.RoleAdmin,
			IsActive:      true,
			EmailVerified: true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@readnwin.com (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "reader@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("reader123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		testUser := user.User{
			Email:         "reader@example.com",
			Password:      string(hashedPassword),
			FirstName:     "Test",
			LastName:      "Reader",
			Phone:         "+2348012345678",
			Role:          user.RoleReader,
			IsActive:      true,
			EmailVerified: true,
		}

		if err := m.db.Create(&testUser).Error; err != nil {
			return err
		}

		log.Println("✅ Created test user: reader@example.com (password: reader123)")
	} else {
		log.Println("⏭️ Test user already exists")
	}

	return nil
}

// seedSampleBooks creates sample books for development and payment testing
func (m *Migration) seedSampleBooks() error {
	log.Println("📚 Seeding sample books...")

	var bookCount int64
	m.db.Model(&book.Book{}).Count(&bookCount)

	if bookCount >= 3 {
		log.Println("⏭️ Sample books already exist")
		return nil
	}

	var fiction book.Category
	m.db.Where("slug = ?", "fiction").First(&fiction)
	var business book.Category
	m.db.Where("slug = ?", "business").First(&business)

	fictionID := fiction.ID
	businessID := business.ID

	sampleBooks := []book.Book{
		{
			Title:       "The Long Harmattan",
			Slug:        "the-long-harmattan",
			AuthorName:  "Adaeze Okonkwo",
			Description: "A sweeping family saga set across three generations in Enugu, following the Nwosu family through independence, civil war, and the promise of a new century.",
			Price:       350000, // ₦3,500.00
			Format:      book.FormatBoth,
			CategoryID:  &fictionID,
			ISBN:        "978-978-56001-1-2",
			Language:    "en",
			PageCount:   412,
			IsActive:    true,
			IsFeatured:  true,

			InventoryEnabled: true,
			StockQuantity:    40,
		},
		{
			Title:       "Lagos Hustle",
			Slug:        "lagos-hustle",
			AuthorName:  "Tunde Bakare",
			Description: "A practical guide to building a business in Nigeria's most competitive city, drawn from interviews with over fifty founders.",
			Price:       280000, // ₦2,800.00
			Format:      book.FormatEbook,
			CategoryID:  &businessID,
			ISBN:        "978-978-56001-2-9",
			Language:    "en",
			PageCount:   256,
			IsActive:    true,
			IsFeatured:  true,
		},
		{
			Title:       "Rains at Midnight",
			Slug:        "rains-at-midnight",
			AuthorName:  "Fatima Suleiman",
			Description: "A collection of interlinked short stories about love and leaving, set between Kano and London.",
			Price:       150000, // ₦1,500.00
			Format:      book.FormatEbook,
			CategoryID:  &fictionID,
			ISBN:        "978-978-56001-3-6",
			Language:    "en",
			PageCount:   198,
			IsActive:    true,
			IsFeatured:  false,
		},
	}

	for _, b := range sampleBooks {
		var existing book.Book
		result := m.db.Where("slug = ?", b.Slug).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&b).Error; err != nil {
				log.Printf("⚠️ Failed to create sample book %s: %v", b.Slug, err)
			} else {
				log.Printf("✅ Created sample book: %s", b.Title)
			}
		} else {
			log.Printf("⏭️ Book already exists: %s", b.Title)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"order_status_history",
		"payments",
		"order_items",
		"orders",
		"payment_gateways",
		"cart_items",
		"user_library",
		"wishlist_items",
		"blog_posts",
		"faqs",
		"books",
		"book_categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}
