package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/tradekart/tradekart-backend/pkg/config"
	"github.com/tradekart/tradekart-backend/pkg/logger"
)

var (
	errKeyIDRequired  = errors.New("razorpay key id is required")
	errSecretRequired = errors.New("razorpay key secret is required")
)

// GatewayOrder is the gateway-side order backing the embedded widget.
type GatewayOrder struct {
	ID          string
	AmountPaise int64
	Currency    string
}

// Client wraps the Razorpay SDK plus the key material the widget needs.
type Client struct {
	api       *razorpay.Client
	keyID     string
	keySecret string
}

// NewClient initializes the Razorpay client with the configured keys.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errSecretRequired
	}

	if logg != nil {
		logg.Info(ctx, "razorpay client initialized")
	}

	return &Client{
		api:       razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}, nil
}

// KeyID returns the publishable key the embedded widget is booted with.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// CreateOrder registers a gateway order for the given amount. The receipt is
// our order number so gateway dashboards stay cross-referencable.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, receipt string) (*GatewayOrder, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("razorpay client not initialized")
	}
	if amountPaise <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountPaise)
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}
	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("creating razorpay order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order response missing id")
	}
	return &GatewayOrder{
		ID:          id,
		AmountPaise: amountPaise,
		Currency:    "INR",
	}, nil
}

// VerifyPaymentSignature checks the HMAC the widget returns after a
// successful payment: SHA256(order_id + "|" + payment_id) keyed with the
// secret, hex encoded.
func (c *Client) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	if c == nil {
		return false
	}
	return verifySignature(c.keySecret, gatewayOrderID, gatewayPaymentID, signature)
}

func verifySignature(secret, orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}
