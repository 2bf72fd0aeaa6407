// internal/domain/user/admin_service.go
package user

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"gorm.io/gorm"
)

// AdminService handles admin user management operations
type AdminService struct {
	db     *gorm.DB
	config *config.Config
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:     db,
		config: cfg,
	}
}

// UserListRequest represents user list query parameters
type UserListRequest struct {
	Page          int    `form:"page,default=1"`
	Limit         int    `form:"limit,default=20"`
	Search        string `form:"search"`
	Status        string `form:"status"` // active, inactive, all
	Role          string `form:"role"`   // reader, author, admin, all
	SortBy        string `form:"sort_by,default=created_at"`
	SortOrder     string `form:"sort_order,default=desc"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	EmailVerified *bool  `form:"email_verified"`
}

// UserListResponse represents user list with pagination
type UserListResponse struct {
	Users      []UserWithStats `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// UserWithStats represents user with purchase and reading statistics
type UserWithStats struct {
	User
	OrderCount   int64      `json:"order_count"`
	TotalSpent   int64      `json:"total_spent"` // In kobo
	LastOrderAt  *time.Time `json:"last_order_at"`
	LibraryCount int64      `json:"library_count"`
}

// UserStatusUpdateRequest represents user status update data
type UserStatusUpdateRequest struct {
	IsActive *bool  `json:"is_active" binding:"required"`
	Reason   string `json:"reason,omitempty"`
}

// UserRoleUpdateRequest represents role change data
type UserRoleUpdateRequest struct {
	Role   string `json:"role" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

// UserExportRequest represents user export parameters
type UserExportRequest struct {
	Format        string `form:"format,default=csv"` // csv, json
	Status        string `form:"status"`
	Role          string `form:"role"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	EmailVerified *bool  `form:"email_verified"`
	IncludeStats  bool   `form:"include_stats,default=false"`
}

// GetUsers retrieves users with filtering and pagination
func (s *AdminService) GetUsers(req *UserListRequest) (*UserListResponse, error) {
	var users []User
	var total int64

	query := s.db.Model(&User{})

	if req.Search != "" {
		searchTerm := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ?",
			searchTerm, searchTerm, searchTerm, "%"+req.Search+"%",
		)
	}

	if req.Status != "" && req.Status != "all" {
		query = query.Where("is_active = ?", req.Status == "active")
	}

	if req.Role != "" && req.Role != "all" {
		query = query.Where("role = ?", req.Role)
	}

	if req.EmailVerified != nil {
		query = query.Where("email_verified = ?", *req.EmailVerified)
	}

	if req.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", req.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if req.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", req.DateTo); err == nil {
			query = query.Where("created_at <= ?", dateTo.Add(24*time.Hour-time.Second))
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	orderClause := req.SortBy
	if req.SortOrder == "desc" {
		orderClause += " DESC"
	} else {
		orderClause += " ASC"
	}
	query = query.Order(orderClause)

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}

	var usersWithStats []UserWithStats
	for _, u := range users {
		userStats, err := s.getUserStats(u.ID)
		if err != nil {
			userStats = &UserWithStats{}
		}
		userStats.User = u
		userStats.User.Password = ""
		usersWithStats = append(usersWithStats, *userStats)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &UserListResponse{
		Users:      usersWithStats,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUser retrieves a single user by ID with stats
func (s *AdminService) GetUser(userID uint) (*UserWithStats, error) {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}

	userStats, err := s.getUserStats(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	userStats.User = u
	userStats.User.Password = ""

	return userStats, nil
}

// UpdateUserStatus updates user active status
func (s *AdminService) UpdateUserStatus(userID uint, req *UserStatusUpdateRequest, adminID uint) error {
	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if req.IsActive == nil {
		return fmt.Errorf("is_active is required")
	}

	if userID == adminID && !*req.IsActive {
		return fmt.Errorf("cannot deactivate your own account")
	}

	updates := map[string]interface{}{
		"is_active":  *req.IsActive,
		"updated_at": time.Now(),
	}

	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	return nil
}

// UpdateUserRole changes a user's role. The last admin can never be
// demoted.
func (s *AdminService) UpdateUserRole(userID uint, req *UserRoleUpdateRequest, adminID uint) error {
	if !IsValidRole(req.Role) {
		return fmt.Errorf("unknown role: %s", req.Role)
	}

	var u User
	if err := s.db.First(&u, userID).Error; err != nil {
		return fmt.Errorf("user not found")
	}

	if userID == adminID && req.Role != RoleAdmin {
		return fmt.Errorf("cannot remove your own admin privileges")
	}

	if u.Role == RoleAdmin && req.Role != RoleAdmin {
		var adminCount int64
		s.db.Model(&User{}).Where("role = ? AND id != ?", RoleAdmin, userID).Count(&adminCount)
		if adminCount == 0 {
			return fmt.Errorf("cannot demote the last admin")
		}
	}

	updates := map[string]interface{}{
		"role":       req.Role,
		"updated_at": time.Now(),
	}

	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return nil
}

// ExportUsers exports users data as CSV or JSON
func (s *AdminService) ExportUsers(req *UserExportRequest) ([]byte, string, error) {
	query := s.db.Model(&User{})

	if req.Status != "" && req.Status != "all" {
		query = query.Where("is_active = ?", req.Status == "active")
	}

	if req.Role != "" && req.Role != "all" {
		query = query.Where("role = ?", req.Role)
	}

	if req.EmailVerified != nil {
		query = query.Where("email_verified = ?", *req.EmailVerified)
	}

	if req.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", req.DateFrom); err == nil {
			query = query.Where("created_at >= ?", dateFrom)
		}
	}

	if req.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", req.DateTo); err == nil {
			query = query.Where("created_at <= ?", dateTo.Add(24*time.Hour-time.Second))
		}
	}

	var users []User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, "", fmt.Errorf("failed to retrieve users for export: %w", err)
	}

	switch req.Format {
	case "csv":
		return s.generateCSVExport(users, req.IncludeStats)
	case "json":
		return s.generateJSONExport(users, req.IncludeStats)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", req.Format)
	}
}

// getUserStats gets purchase and reading statistics for a user
func (s *AdminService) getUserStats(userID uint) (*UserWithStats, error) {
	stats := &UserWithStats{}

	type OrderStats struct {
		OrderCount  int64
		TotalSpent  int64
		LastOrderAt *time.Time
	}

	var orderStats OrderStats
	err := s.db.Raw(`
		SELECT
			COUNT(*) as order_count,
			COALESCE(SUM(total_amount), 0) as total_spent,
			MAX(created_at) as last_order_at
		FROM orders
		WHERE user_id = ? AND status NOT IN ('cancelled', 'failed')
	`, userID).Scan(&orderStats).Error
	if err != nil {
		orderStats = OrderStats{}
	}

	stats.OrderCount = orderStats.OrderCount
	stats.TotalSpent = orderStats.TotalSpent
	stats.LastOrderAt = orderStats.LastOrderAt

	s.db.Table("user_library").Where("user_id = ?", userID).Count(&stats.LibraryCount)

	return stats, nil
}

// generateCSVExport generates CSV export
func (s *AdminService) generateCSVExport(users []User, includeStats bool) ([]byte, string, error) {
	var records [][]string

	headers := []string{
		"ID", "Email", "First Name", "Last Name", "Phone",
		"Role", "Is Active", "Email Verified", "Created At", "Last Login",
	}

	if includeStats {
		headers = append(headers, "Order Count", "Total Spent", "Library Count", "Last Order")
	}

	records = append(records, headers)

	for _, u := range users {
		record := []string{
			strconv.Itoa(int(u.ID)),
			u.Email,
			u.FirstName,
			u.LastName,
			u.Phone,
			u.Role,
			strconv.FormatBool(u.IsActive),
			strconv.FormatBool(u.EmailVerified),
			u.CreatedAt.Format("2006-01-02 15:04:05"),
		}

		if u.LastLoginAt != nil {
			record = append(record, u.LastLoginAt.Format("2006-01-02 15:04:05"))
		} else {
			record = append(record, "Never")
		}

		if includeStats {
			stats, _ := s.getUserStats(u.ID)
			record = append(record,
				strconv.FormatInt(stats.OrderCount, 10),
				fmt.Sprintf("%.2f", float64(stats.TotalSpent)/100),
				strconv.FormatInt(stats.LibraryCount, 10),
			)

			if stats.LastOrderAt != nil {
				record = append(record, stats.LastOrderAt.Format("2006-01-02 15:04:05"))
			} else {
				record = append(record, "Never")
			}
		}

		records = append(records, record)
	}

	var csvData strings.Builder
	writer := csv.NewWriter(&csvData)

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV: %w", err)
	}

	filename := fmt.Sprintf("users_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	return []byte(csvData.String()), filename, nil
}

// generateJSONExport generates JSON export
func (s *AdminService) generateJSONExport(users []User, includeStats bool) ([]byte, string, error) {
	var exportData []interface{}

	for _, u := range users {
		u.Password = ""

		userData := map[string]interface{}{
			"id":             u.ID,
			"email":          u.Email,
			"first_name":     u.FirstName,
			"last_name":      u.LastName,
			"phone":          u.Phone,
			"role":           u.Role,
			"is_active":      u.IsActive,
			"email_verified": u.EmailVerified,
			"created_at":     u.CreatedAt,
			"last_login_at":  u.LastLoginAt,
		}

		if includeStats {
			stats, _ := s.getUserStats(u.ID)
			userData["order_count"] = stats.OrderCount
			userData["total_spent"] = float64(stats.TotalSpent) / 100
			userData["library_count"] = stats.LibraryCount
			userData["last_order_at"] = stats.LastOrderAt
		}

		exportData = append(exportData, userData)
	}

	jsonData, err := json.MarshalIndent(map[string]interface{}{
		"exported_at": time.Now(),
		"total_users": len(users),
		"users":       exportData,
	}, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	filename := fmt.Sprintf("users_export_%s.json", time.Now().Format("2006-01-02_15-04-05"))
	return jsonData, filename, nil
}
