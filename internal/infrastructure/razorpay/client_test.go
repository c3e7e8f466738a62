package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	c := NewClient("key", "s3cr3t", "")

	mac := hmac.New(sha256.New, []byte("s3cr3t"))
	mac.Write([]byte("order_abc|pay_123"))
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, c.VerifySignature("order_abc", "pay_123", valid))
	assert.False(t, c.VerifySignature("order_abc", "pay_123", "deadbeef"))
	assert.False(t, c.VerifySignature("order_abc", "pay_124", valid))
	assert.False(t, c.VerifySignature("order_abc", "pay_123", ""))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		w.Write([]byte(`{"id":"order_xyz","amount":125000,"currency":"INR"}`))
	}))
	defer srv.Close()

	c := NewClient("key", "secret", srv.URL)
	orderID, err := c.CreateOrder(context.Background(), 125000, "INR", "receipt_1")
	require.NoError(t, err)
	assert.Equal(t, "order_xyz", orderID)
}

func TestCreateOrderUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("key", "secret", srv.URL)
	_, err := c.CreateOrder(context.Background(), 1000, "INR", "r")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestCreateOrderMissingCredentials(t *testing.T) {
	c := NewClient("", "", "http://unused")
	_, err := c.CreateOrder(context.Background(), 1000, "INR", "r")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
}
