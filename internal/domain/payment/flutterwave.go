// internal/domain/payment/flutterwave.go
package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/readnwin/readnwin-backend/internal/config"
)

// FlutterwaveClient talks to the Flutterwave v3 API
type FlutterwaveClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewFlutterwaveClient creates a Flutterwave API client
func NewFlutterwaveClient(cfg *config.Config) *FlutterwaveClient {
	return &FlutterwaveClient{
		secretKey: cfg.External.Flutterwave.SecretKey,
		baseURL:   cfg.External.Flutterwave.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether a secret key is present
func (c *FlutterwaveClient) IsConfigured() bool {
	return c.secretKey != ""
}

// FlutterwavePaymentRequest is the hosted-payment initiation payload
type FlutterwavePaymentRequest struct {
	TxRef          string                 `json:"tx_ref"`
	Amount         float64                `json:"amount"` // Major units (naira)
	Currency       string                 `json:"currency"`
	RedirectURL    string                 `json:"redirect_url"`
	Customer       FlutterwaveCustomer    `json:"customer"`
	Customizations FlutterwaveCustomize   `json:"customizations"`
	Meta           map[string]interface{} `json:"meta,omitempty"`
}

// FlutterwaveCustomer identifies the payer
type FlutterwaveCustomer struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber,omitempty"`
}

// FlutterwaveCustomize styles the hosted payment page
type FlutterwaveCustomize struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
}

type flutterwaveResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type flutterwavePaymentLink struct {
	Link string `json:"link"`
}

// FlutterwaveTransaction is the verification result for a transaction
type FlutterwaveTransaction struct {
	ID       int64   `json:"id"`
	TxRef    string  `json:"tx_ref"`
	FlwRef   string  `json:"flw_ref"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"` // successful, failed, pending
}

// IsSuccessful reports whether the transaction settled
func (t *FlutterwaveTransaction) IsSuccessful() bool {
	return t.Status == "successful"
}

// InitializePayment creates a hosted payment and returns the redirect link
func (c *FlutterwaveClient) InitializePayment(req *FlutterwavePaymentRequest) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("flutterwave is not configured")
	}

	respBody, err := c.call("POST", "/payments", req)
	if err != nil {
		return "", err
	}

	var envelope flutterwaveResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", fmt.Errorf("failed to parse flutterwave response: %w", err)
	}
	if envelope.Status != "success" {
		return "", fmt.Errorf("flutterwave payment initialization failed: %s", envelope.Message)
	}

	var link flutterwavePaymentLink
	if err := json.Unmarshal(envelope.Data, &link); err != nil || link.Link == "" {
		return "", fmt.Errorf("flutterwave response missing payment link")
	}

	return link.Link, nil
}

// VerifyTransaction checks a transaction's final status with Flutterwave
func (c *FlutterwaveClient) VerifyTransaction(transactionID string) (*FlutterwaveTransaction, error) {
	if !c.IsConfigured() {
		return nil, fmt.Errorf("flutterwave is not configured")
	}

	respBody, err := c.call("GET", fmt.Sprintf("/transactions/%s/verify", transactionID), nil)
	if err != nil {
		return nil, err
	}

	var envelope flutterwaveResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse flutterwave response: %w", err)
	}
	if envelope.Status != "success" {
		return nil, fmt.Errorf("flutterwave verification failed: %s", envelope.Message)
	}

	var tx FlutterwaveTransaction
	if err := json.Unmarshal(envelope.Data, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse flutterwave transaction: %w", err)
	}

	return &tx, nil
}

func (c *FlutterwaveClient) call(method, endpoint string, data interface{}) ([]byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequest(method, c.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach flutterwave: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("flutterwave API returned status %d: %s", resp.StatusCode, respBody.String())
	}

	return respBody.Bytes(), nil
}
