package gateway

import (
	"bytes"         // Request body buffer
	"context"       // Request-scoped cancellation
	"encoding/json" // JSON encoding/decoding
	"fmt"           // Error wrapping
	"net/http"      // HTTP client
	"time"          // Client timeout
)

// PaymentGateway creates purchase orders with the external payment provider.
// The provider is an external collaborator: only its order-creation surface is
// modeled here, status updates arrive via the client-side callback.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency string) (orderID string, err error)
}

// HTTPPaymentGateway talks to a Razorpay-style orders API over HTTPS
type HTTPPaymentGateway struct {
	BaseURL   string       // Provider API base, e.g. https://api.razorpay.com/v1
	KeyID     string       // API key id, also handed to the client for checkout
	KeySecret string       // API key secret
	Client    *http.Client // Optional custom client
}

// orderRequest is the provider's order-creation payload
type orderRequest struct {
	Amount   int64  `json:"amount"`   // Amount in the currency's smallest unit
	Currency string `json:"currency"` // ISO currency code
	Receipt  string `json:"receipt"`  // Caller-side reference
}

// orderResponse is the provider's order-creation reply
type orderResponse struct {
	ID string `json:"id"` // External order identifier
}

// CreateOrder registers a new order with the provider and returns its id
func (g *HTTPPaymentGateway) CreateOrder(ctx context.Context, amount int64, currency string) (string, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  fmt.Sprintf("order_%d", time.Now().UnixMilli()),
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.KeyID, g.KeySecret) // Provider uses basic auth with the key pair
	client := g.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment gateway: unexpected status %d", resp.StatusCode)
	}
	var out orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("payment gateway: decode response: %w", err)
	}
	return out.ID, nil
}
