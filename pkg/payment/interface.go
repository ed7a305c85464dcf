package payment

import (
	"context"
)

// CheckoutProvider creates provider-hosted payment orders and verifies the
// signed callback a checkout overlay returns after completion.
type CheckoutProvider interface {
	// CreateOrder registers an order with the gateway. Amount is in the
	// smallest currency unit; receipt is an opaque caller reference echoed
	// back in the order descriptor.
	CreateOrder(ctx context.Context, request *OrderRequest) (*OrderResponse, error)

	// VerifyPaymentSignature checks the signed callback fields that the
	// checkout overlay hands back after a completed payment.
	VerifyPaymentSignature(orderID, paymentID, signature string) bool

	// ValidateWebhook authenticates an asynchronous gateway notification.
	ValidateWebhook(ctx context.Context, payload []byte, signature string) (*WebhookEvent, error)
}

type OrderRequest struct {
	Amount   int64                  `json:"amount"`
	Currency string                 `json:"currency"`
	Receipt  string                 `json:"receipt"`
	Notes    map[string]interface{} `json:"notes"`
}

type OrderResponse struct {
	OrderID   string `json:"order_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type WebhookEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt int64                  `json:"created_at"`
}
