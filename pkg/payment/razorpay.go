package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client:        client,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayProvider) CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error) {
	orderData := map[string]interface{}{
		"amount":   request.Amount,
		"currency": request.Currency,
		"receipt":  request.Receipt,
		"notes":    request.Notes,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &OrderResponse{
		OrderID:   asString(order["id"]),
		Amount:    asInt64(order["amount"]),
		Currency:  asString(order["currency"]),
		Receipt:   asString(order["receipt"]),
		Status:    asString(order["status"]),
		CreatedAt: asInt64(order["created_at"]),
	}, nil
}

// VerifyPaymentSignature recomputes HMAC-SHA256(order_id + "|" + payment_id)
// with the key secret and compares it against the callback signature in
// constant time. This is the fixed Razorpay checkout contract.
func (r *RazorpayProvider) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := hmacSHA256Hex(orderID+"|"+paymentID, r.keySecret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (r *RazorpayProvider) ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error) {
	expected := hmacSHA256Hex(string(payload), r.webhookSecret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, fmt.Errorf("invalid webhook signature")
	}

	var event map[string]interface{}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webhook payload: %w", err)
	}

	return &WebhookEvent{
		EventID:   asString(event["id"]),
		EventType: asString(event["event"]),
		Data:      event,
		CreatedAt: time.Now().Unix(),
	}, nil
}

func hmacSHA256Hex(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// Razorpay responses are loosely typed maps; numbers arrive as json.Number,
// float64 or int depending on the SDK path.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	}
	return 0
}
