// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeWelcome             EmailType = "welcome"
	EmailTypeOrderConfirmation   EmailType = "order_confirmation"
	EmailTypePaymentSuccess      EmailType = "payment_success"
	EmailTypePaymentFailed       EmailType = "payment_failed"
	EmailTypeBankTransferPending EmailType = "bank_transfer_pending"
)

// Email represents an email message
type Email struct {
	To          []string               `json:"to"`
	CC          []string               `json:"cc,omitempty"`
	BCC         []string               `json:"bcc,omitempty"`
	Subject     string                 `json:"subject"`
	HTMLContent string                 `json:"html_content"`
	TextContent string                 `json:"text_content,omitempty"`
	Type        EmailType              `json:"type"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName   string `json:"site_name"`
	SiteURL    string `json:"site_url"`
	SupportURL string `json:"support_url"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	Year       int    `json:"year"`
}

// WelcomeEmailData contains data for welcome email
type WelcomeEmailData struct {
	EmailTemplateData
	VerificationURL string `json:"verification_url"`
}

// OrderConfirmationData contains data for order confirmation email
type OrderConfirmationData struct {
	EmailTemplateData
	OrderNumber   string      `json:"order_number"`
	OrderDate     string      `json:"order_date"`
	OrderTotal    float64     `json:"order_total"` // Naira
	OrderURL      string      `json:"order_url"`
	Items         []OrderItem `json:"items"`
	PaymentMethod string      `json:"payment_method"`
	HasEbooks     bool        `json:"has_ebooks"`
	LibraryURL    string      `json:"library_url,omitempty"`
}

// OrderItem represents a book line in the order email
type OrderItem struct {
	Title      string  `json:"title"`
	AuthorName string  `json:"author_name"`
	Format     string  `json:"format"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Total      float64 `json:"total"`
}

// PaymentNotificationData contains data for payment notifications
type PaymentNotificationData struct {
	EmailTemplateData
	OrderNumber   string  `json:"order_number"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
	OrderURL      string  `json:"order_url"`
	Date          string  `json:"date"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason,omitempty"` // For failed payments
}

// BankTransferData contains data for bank transfer instruction emails
type BankTransferData struct {
	EmailTemplateData
	OrderNumber   string  `json:"order_number"`
	Amount        float64 `json:"amount"`
	Reference     string  `json:"reference"`
	BankName      string  `json:"bank_name"`
	AccountNumber string  `json:"account_number"`
	AccountName   string  `json:"account_name"`
	ExpiryTime    string  `json:"expiry_time"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:   siteName,
		SiteURL:    siteURL,
		SupportURL: siteURL + "/support",
		UserName:   userName,
		UserEmail:  userEmail,
		Year:       time.Now().Year(),
	}
}
