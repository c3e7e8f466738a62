// Package razorpay talks to the payment provider. The client only creates
// provider orders and judges callback signatures; it never mutates store
// state, so callers stay free to decide what a verification result means.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ironfitwear/storefront/internal/pkg/apperr"
)

const requestTimeout = 5 * time.Second

type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// NewClient builds a provider client. Empty credentials are allowed here;
// they surface as a configuration error on first use so the server can still
// boot for read-only traffic.
func NewClient(keyID, keySecret, baseURL string) *Client {
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: requestTimeout},
	}
}

// KeyID is exposed to clients that need it for the checkout widget.
func (c *Client) KeyID() string { return c.keyID }

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers an order with the provider and returns the provider
// order id. Amount is in the currency's minor unit (paise).
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	if c.keyID == "" || c.keySecret == "" {
		return "", apperr.Configuration("payment provider credentials not configured")
	}

	body, err := json.Marshal(createOrderRequest{Amount: amount, Currency: currency, Receipt: receipt})
	if err != nil {
		return "", fmt.Errorf("razorpay: encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("razorpay: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Upstream("payment provider unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperr.Upstream("payment provider error", fmt.Errorf("razorpay: create order: status %d", resp.StatusCode))
	}

	var order createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", apperr.Upstream("payment provider returned malformed order", err)
	}
	return order.ID, nil
}

// VerifySignature reports whether signature is the hex HMAC-SHA256 of
// "orderID|paymentID" under the key secret, using a constant-time compare.
// A mismatch is an expected adversarial/retry case, so it is a negative
// result rather than an error.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(c.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the provider callback signature for an order/payment pair.
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
