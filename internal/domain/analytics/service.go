// internal/domain/analytics/service.go
package analytics

import (
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles analytics business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DashboardStats represents overall dashboard statistics
type DashboardStats struct {
	// Sales metrics
	TotalRevenue     int64   `json:"total_revenue"`      // In kobo
	RevenueToday     int64   `json:"revenue_today"`      // In kobo
	RevenueThisWeek  int64   `json:"revenue_this_week"`  // In kobo
	RevenueThisMonth int64   `json:"revenue_this_month"` // In kobo
	RevenueGrowth    float64 `json:"revenue_growth"`     // Percentage

	// Order metrics
	TotalOrders     int64   `json:"total_orders"`
	OrdersToday     int64   `json:"orders_today"`
	OrdersThisWeek  int64   `json:"orders_this_week"`
	OrdersThisMonth int64   `json:"orders_this_month"`
	OrderGrowth     float64 `json:"order_growth"` // Percentage

	// User metrics
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersToday     int64   `json:"new_users_today"`
	NewUsersThisWeek  int64   `json:"new_users_this_week"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	UserGrowth        float64 `json:"user_growth"` // Percentage

	// Catalog metrics
	TotalBooks      int64 `json:"total_books"`
	ActiveBooks     int64 `json:"active_books"`
	FeaturedBooks   int64 `json:"featured_books"`
	OutOfStockBooks int64 `json:"out_of_stock_books"`

	// Library metrics
	TotalLibraryEntries int64 `json:"total_library_entries"`
	BooksInProgress     int64 `json:"books_in_progress"`
	BooksCompleted      int64 `json:"books_completed"`

	// Conversion metrics
	ConversionRate     float64 `json:"conversion_rate"`      // Percentage
	AvgOrderValue      int64   `json:"avg_order_value"`      // In kobo
	RepeatCustomerRate float64 `json:"repeat_customer_rate"` // Percentage
}

// SalesAnalytics represents sales analytics data
type SalesAnalytics struct {
	DailyRevenue []TimeSeriesData `json:"daily_revenue"`

	TotalSales    int64           `json:"total_sales"`
	TotalRevenue  int64           `json:"total_revenue"`
	AvgOrderValue int64           `json:"avg_order_value"`
	TopBooks      []BookSalesData `json:"top_books"`
	SalesByStatus []StatusData    `json:"sales_by_status"`
	SalesByFormat []FormatData    `json:"sales_by_format"`

	RevenueGrowth float64 `json:"revenue_growth"`
}

// ReadingAnalytics represents library and reading engagement data
type ReadingAnalytics struct {
	TotalLibraryEntries int64             `json:"total_library_entries"`
	BooksInProgress     int64             `json:"books_in_progress"`
	BooksCompleted      int64             `json:"books_completed"`
	CompletionRate      float64           `json:"completion_rate"` // Percentage
	AvgProgress         float64           `json:"avg_progress"`    // Percentage
	MostReadBooks       []BookReadingData `json:"most_read_books"`
	ActiveReaders       int64             `json:"active_readers"`
	DailyReads          []TimeSeriesData  `json:"daily_reads"`
}

// CustomerAnalytics represents customer analytics data
type CustomerAnalytics struct {
	TotalCustomers        int64          `json:"total_customers"`
	ActiveCustomers       int64          `json:"active_customers"`
	NewCustomers          int64          `json:"new_customers"`
	RepeatCustomers       int64          `json:"repeat_customers"`
	CustomerGrowth        float64        `json:"customer_growth"`
	TopCustomers          []CustomerData `json:"top_customers"`
	CustomerLifetimeValue int64          `json:"customer_lifetime_value"`
}

// Supporting data structures
type TimeSeriesData struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
	Count int64  `json:"count,omitempty"`
}

type BookSalesData struct {
	BookID     uint   `json:"book_id"`
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
	TotalSold  int64  `json:"total_sold"`
	Revenue    int64  `json:"revenue"`
	OrderCount int64  `json:"order_count"`
}

type BookReadingData struct {
	BookID      uint    `json:"book_id"`
	Title       string  `json:"title"`
	AuthorName  string  `json:"author_name"`
	ReaderCount int64   `json:"reader_count"`
	Completions int64   `json:"completions"`
	AvgProgress float64 `json:"avg_progress"`
}

type StatusData struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Value  int64  `json:"value"`
}

type FormatData struct {
	Format  string `json:"format"`
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"`
}

type CustomerData struct {
	UserID       uint       `json:"user_id"`
	CustomerName string     `json:"customer_name"`
	Email        string     `json:"email"`
	TotalSpent   int64      `json:"total_spent"`
	OrderCount   int64      `json:"order_count"`
	LastOrder    *time.Time `json:"last_order"`
}

// GetDashboardStats retrieves overall dashboard statistics
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	thisWeek := today.AddDate(0, 0, -int(today.Weekday()))
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	// Revenue metrics
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('cancelled', 'failed')").Scan(&stats.TotalRevenue)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('cancelled', 'failed') AND created_at >= ?", today).Scan(&stats.RevenueToday)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('cancelled', 'failed') AND created_at >= ?", thisWeek).Scan(&stats.RevenueThisWeek)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('cancelled', 'failed') AND created_at >= ?", thisMonth).Scan(&stats.RevenueThisMonth)

	// Revenue growth (current month vs last month)
	var lastMonthRevenue int64
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('cancelled', 'failed') AND created_at >= ? AND created_at < ?", lastMonth, thisMonth).Scan(&lastMonthRevenue)
	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = float64(stats.RevenueThisMonth-lastMonthRevenue) / float64(lastMonthRevenue) * 100
	}

	// Order metrics
	s.db.Raw("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE created_at >= ?", today).Scan(&stats.OrdersToday)
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE created_at >= ?", thisWeek).Scan(&stats.OrdersThisWeek)
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE created_at >= ?", thisMonth).Scan(&stats.OrdersThisMonth)

	var lastMonthOrders int64
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE created_at >= ? AND created_at < ?", lastMonth, thisMonth).Scan(&lastMonthOrders)
	if lastMonthOrders > 0 {
		stats.OrderGrowth = float64(stats.OrdersThisMonth-lastMonthOrders) / float64(lastMonthOrders) * 100
	}

	// User metrics
	s.db.Raw("SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE is_active = true").Scan(&stats.ActiveUsers)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE created_at >= ?", today).Scan(&stats.NewUsersToday)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE created_at >= ?", thisWeek).Scan(&stats.NewUsersThisWeek)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE created_at >= ?", thisMonth).Scan(&stats.NewUsersThisMonth)

	var lastMonthUsers int64
	s.db.Raw("SELECT COUNT(*) FROM users WHERE created_at >= ? AND created_at < ?", lastMonth, thisMonth).Scan(&lastMonthUsers)
	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}

	// Catalog metrics
	s.db.Raw("SELECT COUNT(*) FROM books").Scan(&stats.TotalBooks)
	s.db.Raw("SELECT COUNT(*) FROM books WHERE is_active = true").Scan(&stats.ActiveBooks)
	s.db.Raw("SELECT COUNT(*) FROM books WHERE is_featured = true AND is_active = true").Scan(&stats.FeaturedBooks)
	s.db.Raw("SELECT COUNT(*) FROM books WHERE format != 'ebook' AND stock_quantity <= 0").Scan(&stats.OutOfStockBooks)

	// Library metrics
	s.db.Raw("SELECT COUNT(*) FROM user_library").Scan(&stats.TotalLibraryEntries)
	s.db.Raw("SELECT COUNT(*) FROM user_library WHERE progress > 0 AND progress < 98 AND status != 'completed'").Scan(&stats.BooksInProgress)
	s.db.Raw("SELECT COUNT(*) FROM user_library WHERE progress >= 98 OR status = 'completed'").Scan(&stats.BooksCompleted)

	// Conversion metrics
	if stats.TotalUsers > 0 {
		stats.ConversionRate = float64(stats.TotalOrders) / float64(stats.TotalUsers) * 100
	}

	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / stats.TotalOrders
	}

	// Repeat customer rate
	var repeatCustomers int64
	s.db.Raw("SELECT COUNT(DISTINCT user_id) FROM orders WHERE user_id IN (SELECT user_id FROM orders GROUP BY user_id HAVING COUNT(*) > 1)").Scan(&repeatCustomers)
	if stats.TotalUsers > 0 {
		stats.RepeatCustomerRate = float64(repeatCustomers) / float64(stats.TotalUsers) * 100
	}

	return stats, nil
}

// GetSalesAnalytics retrieves sales analytics data
func (s *Service) GetSalesAnalytics(days int) (*SalesAnalytics, error) {
	analytics := &SalesAnalytics{}

	if days <= 0 {
		days = 30
	}

	startDate := time.Now().AddDate(0, 0, -days)

	rows, err := s.db.Raw(`
		SELECT
			DATE(created_at) as date,
			COALESCE(SUM(total_amount), 0) as revenue,
			COUNT(*) as order_count
		FROM orders
		WHERE created_at >= ? AND status NOT IN ('cancelled', 'failed')
		GROUP BY DATE(created_at)
		ORDER BY date
	`, startDate).Rows()

	if err != nil {
		return nil, fmt.Errorf("failed to get daily revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var data TimeSeriesData
		if err := rows.Scan(&data.Date, &data.Value, &data.Count); err != nil {
			continue
		}
		analytics.DailyRevenue = append(analytics.DailyRevenue, data)
	}

	s.db.Raw("SELECT COUNT(*) FROM orders WHERE created_at >= ? AND status NOT IN ('cancelled', 'failed')", startDate).Scan(&analytics.TotalSales)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE created_at >= ? AND status NOT IN ('cancelled', 'failed')", startDate).Scan(&analytics.TotalRevenue)

	if analytics.TotalSales > 0 {
		analytics.AvgOrderValue = analytics.TotalRevenue / analytics.TotalSales
	}

	// Revenue growth (this month vs last month)
	now := time.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	var thisMonthRevenue, lastMonthRevenue int64
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE created_at >= ? AND status NOT IN ('cancelled', 'failed')", thisMonth).Scan(&thisMonthRevenue)
	s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE created_at >= ? AND created_at < ? AND status NOT IN ('cancelled', 'failed')", lastMonth, thisMonth).Scan(&lastMonthRevenue)
	if lastMonthRevenue > 0 {
		analytics.RevenueGrowth = float64(thisMonthRevenue-lastMonthRevenue) / float64(lastMonthRevenue) * 100
	}

	// Top books by revenue
	bookRows, err := s.db.Raw(`
		SELECT
			oi.book_id,
			oi.title,
			oi.author_name,
			COALESCE(SUM(oi.quantity), 0) as total_sold,
			COALESCE(SUM(oi.total_price), 0) as revenue,
			COUNT(DISTINCT o.id) as order_count
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.created_at >= ? AND o.status NOT IN ('cancelled', 'failed')
		GROUP BY oi.book_id, oi.title, oi.author_name
		ORDER BY revenue DESC
		LIMIT 10
	`, startDate).Rows()

	if err == nil {
		defer bookRows.Close()
		for bookRows.Next() {
			var book BookSalesData
			if err := bookRows.Scan(&book.BookID, &book.Title, &book.AuthorName, &book.TotalSold, &book.Revenue, &book.OrderCount); err != nil {
				continue
			}
			analytics.TopBooks = append(analytics.TopBooks, book)
		}
	}

	// Sales by order status
	statusRows, err := s.db.Raw(`
		SELECT
			status,
			COUNT(*) as count,
			COALESCE(SUM(total_amount), 0) as value
		FROM orders
		WHERE created_at >= ?
		GROUP BY status
		ORDER BY count DESC
	`, startDate).Rows()

	if err == nil {
		defer statusRows.Close()
		for statusRows.Next() {
			var status StatusData
			if err := statusRows.Scan(&status.Status, &status.Count, &status.Value); err != nil {
				continue
			}
			analytics.SalesByStatus = append(analytics.SalesByStatus, status)
		}
	}

	// Sales split between ebook and physical lines
	formatRows, err := s.db.Raw(`
		SELECT
			oi.format,
			COALESCE(SUM(oi.quantity), 0) as count,
			COALESCE(SUM(oi.total_price), 0) as revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.created_at >= ? AND o.status NOT IN ('cancelled', 'failed')
		GROUP BY oi.format
		ORDER BY revenue DESC
	`, startDate).Rows()

	if err == nil {
		defer formatRows.Close()
		for formatRows.Next() {
			var format FormatData
			if err := formatRows.Scan(&format.Format, &format.Count, &format.Revenue); err != nil {
				continue
			}
			analytics.SalesByFormat = append(analytics.SalesByFormat, format)
		}
	}

	return analytics, nil
}

// GetReadingAnalytics retrieves library engagement data
func (s *Service) GetReadingAnalytics(days int) (*ReadingAnalytics, error) {
	analytics := &ReadingAnalytics{}

	if days <= 0 {
		days = 30
	}
	startDate := time.Now().AddDate(0, 0, -days)

	s.db.Raw("SELECT COUNT(*) FROM user_library").Scan(&analytics.TotalLibraryEntries)
	s.db.Raw("SELECT COUNT(*) FROM user_library WHERE progress > 0 AND progress < 98 AND status != 'completed'").Scan(&analytics.BooksInProgress)
	s.db.Raw("SELECT COUNT(*) FROM user_library WHERE progress >= 98 OR status = 'completed'").Scan(&analytics.BooksCompleted)

	if analytics.TotalLibraryEntries > 0 {
		analytics.CompletionRate = float64(analytics.BooksCompleted) / float64(analytics.TotalLibraryEntries) * 100
	}

	s.db.Raw("SELECT COALESCE(AVG(progress), 0) FROM user_library").Scan(&analytics.AvgProgress)
	s.db.Raw("SELECT COUNT(DISTINCT user_id) FROM user_library WHERE last_read_at >= ?", startDate).Scan(&analytics.ActiveReaders)

	// Most read books
	bookRows, err := s.db.Raw(`
		SELECT
			ul.book_id,
			b.title,
			b.author_name,
			COUNT(DISTINCT ul.user_id) as reader_count,
			COUNT(DISTINCT CASE WHEN ul.progress >= 98 OR ul.status = 'completed' THEN ul.user_id END) as completions,
			COALESCE(AVG(ul.progress), 0) as avg_progress
		FROM user_library ul
		JOIN books b ON ul.book_id = b.id
		GROUP BY ul.book_id, b.title, b.author_name
		ORDER BY reader_count DESC
		LIMIT 10
	`).Rows()

	if err == nil {
		defer bookRows.Close()
		for bookRows.Next() {
			var book BookReadingData
			if err := bookRows.Scan(&book.BookID, &book.Title, &book.AuthorName, &book.ReaderCount, &book.Completions, &book.AvgProgress); err != nil {
				continue
			}
			analytics.MostReadBooks = append(analytics.MostReadBooks, book)
		}
	}

	// Daily reading activity
	dailyRows, err := s.db.Raw(`
		SELECT
			DATE(last_read_at) as date,
			COUNT(DISTINCT user_id) as value
		FROM user_library
		WHERE last_read_at >= ?
		GROUP BY DATE(last_read_at)
		ORDER BY date
	`, startDate).Rows()

	if err == nil {
		defer dailyRows.Close()
		for dailyRows.Next() {
			var data TimeSeriesData
			if err := dailyRows.Scan(&data.Date, &data.Value); err != nil {
				continue
			}
			analytics.DailyReads = append(analytics.DailyReads, data)
		}
	}

	return analytics, nil
}

// GetCustomerAnalytics retrieves customer analytics data
func (s *Service) GetCustomerAnalytics() (*CustomerAnalytics, error) {
	analytics := &CustomerAnalytics{}
	now := time.Now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	s.db.Raw("SELECT COUNT(*) FROM users").Scan(&analytics.TotalCustomers)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE is_active = true").Scan(&analytics.ActiveCustomers)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE created_at >= ?", thisMonth).Scan(&analytics.NewCustomers)

	// Repeat customers (users with more than 1 order)
	s.db.Raw("SELECT COUNT(DISTINCT user_id) FROM orders WHERE user_id IN (SELECT user_id FROM orders GROUP BY user_id HAVING COUNT(*) > 1)").Scan(&analytics.RepeatCustomers)

	var lastMonthCustomers int64
	s.db.Raw("SELECT COUNT(*) FROM users WHERE created_at >= ? AND created_at < ?", lastMonth, thisMonth).Scan(&lastMonthCustomers)
	if lastMonthCustomers > 0 {
		analytics.CustomerGrowth = float64(analytics.NewCustomers-lastMonthCustomers) / float64(lastMonthCustomers) * 100
	}

	// Top customers by total spent
	customerRows, err := s.db.Raw(`
		SELECT
			u.id,
			CONCAT(u.first_name, ' ', u.last_name) as customer_name,
			u.email,
			COALESCE(SUM(o.total_amount), 0) as total_spent,
			COUNT(o.id) as order_count,
			MAX(o.created_at) as last_order
		FROM users u
		LEFT JOIN orders o ON u.id = o.user_id
		WHERE o.status NOT IN ('cancelled', 'failed')
		GROUP BY u.id, u.first_name, u.last_name, u.email
		ORDER BY total_spent DESC
		LIMIT 10
	`).Rows()

	if err == nil {
		defer customerRows.Close()
		for customerRows.Next() {
			var customer CustomerData
			if err := customerRows.Scan(&customer.UserID, &customer.CustomerName, &customer.Email, &customer.TotalSpent, &customer.OrderCount, &customer.LastOrder); err != nil {
				continue
			}
			analytics.TopCustomers = append(analytics.TopCustomers, customer)
		}
	}

	// Customer lifetime value (average)
	if analytics.TotalCustomers > 0 {
		var totalRevenue int64
		s.db.Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status NOT IN ('cancelled', 'failed')").Scan(&totalRevenue)
		analytics.CustomerLifetimeValue = totalRevenue / analytics.TotalCustomers
	}

	return analytics, nil
}
