package gateway

import (
	"bytes"         // Request body buffer
	"context"       // Request-scoped cancellation
	"encoding/json" // JSON encoding
	"fmt"           // Error wrapping
	"net/http"      // HTTP client
	"time"          // Client timeout
)

// Mailer delivers password-reset links. Delivery failure must surface as an
// error so the caller can compensate (the reset request is deleted when the
// mail never went out).
type Mailer interface {
	SendResetLink(ctx context.Context, toEmail, resetURL string) error
}

// HTTPMailer talks to a transactional-email API (Brevo-style) over HTTPS
type HTTPMailer struct {
	BaseURL     string       // Provider API base, e.g. https://api.brevo.com/v3
	APIKey      string       // Provider API key
	SenderEmail string       // From address
	Client      *http.Client // Optional custom client
}

// mailAddress is one address in the provider payload
type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// mailRequest is the provider's send payload
type mailRequest struct {
	Sender      mailAddress   `json:"sender"`
	To          []mailAddress `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
}

// SendResetLink sends the reset URL to the given address
func (m *HTTPMailer) SendResetLink(ctx context.Context, toEmail, resetURL string) error {
	body, err := json.Marshal(mailRequest{
		Sender:  mailAddress{Email: m.SenderEmail, Name: "Expense Tracker"},
		To:      []mailAddress{{Email: toEmail}},
		Subject: "Password Reset Request",
		HTMLContent: "<h1>Reset Your Password</h1>" +
			"<p>Click the link below to set a new password:</p>" +
			"<a href=\"" + resetURL + "\">Reset Password</a>" +
			"<p>This link will expire after use.</p>",
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", m.APIKey) // Provider authenticates via header key
	client := m.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider: unexpected status %d", resp.StatusCode)
	}
	return nil
}
