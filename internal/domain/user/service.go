// internal/domain/user/service.go
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
	"github.com/readnwin/readnwin-backend/internal/pkg/auth"
	"github.com/readnwin/readnwin-backend/internal/pkg/email"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service handles user business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	log             *logrus.Logger
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	emailService    *email.EmailService
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		log:             log,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		emailService:    email.NewEmailService(cfg),
	}
}

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	Phone           string `json:"phone"`
}

// LoginRequest represents user login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *User    `json:"user"`
	Permissions  []string `json:"permissions"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// Register creates a new reader account
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, fmt.Errorf("passwords do not match")
	}

	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	var existingUser User
	result := s.db.Where("email = ?", req.Email).First(&existingUser)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser := User{
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      RoleReader,
		IsActive:  true,
	}

	if err := s.db.Create(&newUser).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		if err := s.emailService.SendWelcomeEmail(context.Background(), newUser.Email, newUser.FirstName); err != nil {
			s.log.WithError(err).Warn("Failed to send welcome email")
		}
	}()

	return s.issueTokens(&newUser)
}

// Login authenticates a user
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var u User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.Password); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.db.Model(&u).Update("last_login_at", now)

	return s.issueTokens(&u)
}

// RefreshToken generates new tokens using a refresh token. The role is
// re-read from the database so a role change takes effect at next refresh.
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var u User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found or inactive")
	}

	return s.issueTokens(&u)
}

func (s *Service) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	u.Password = ""
	return &AuthResponse{
		User:         u,
		Permissions:  PermissionsForRole(u.Role),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetProfile gets user profile by ID
func (s *Service) GetProfile(userID uint) (*User, error) {
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	u.Password = ""
	return &u, nil
}

// UpdateProfile updates user profile
func (s *Service) UpdateProfile(userID uint, updates map[string]interface{}) (*User, error) {
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	// Sensitive fields can only move through dedicated flows
	delete(updates, "password")
	delete(updates, "role")
	delete(updates, "is_active")
	delete(updates, "email_verified")
	delete(updates, "email")

	if err := s.db.Model(&u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	u.Password = ""
	return &u, nil
}

// ChangePassword changes user password after verifying the current one
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	var u User
	result := s.db.Where("id = ? AND is_active = ?", userID, true).First(&u)
	if result.Error != nil {
		return fmt.Errorf("user not found")
	}

	if err := s.passwordManager.VerifyPassword(currentPassword, u.Password); err != nil {
		return fmt.Errorf("current password is incorrect")
	}

	if err := s.passwordManager.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.passwordManager.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.Model(&u).Update("password", hashedPassword).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// VerifyEmail marks a user's email as verified
func (s *Service) VerifyEmail(userID uint) error {
	now := time.Now().UTC()

	err := s.db.Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"email_verified":    true,
			"email_verified_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	s.log.WithField("user_id", userID).Info("Email verified")
	return nil
}

// GetUserByEmail retrieves user by email
func (s *Service) GetUserByEmail(email string) (*User, error) {
	var u User
	result := s.db.Where("email = ?", email).First(&u)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found")
	}

	u.Password = ""
	return &u, nil
}
