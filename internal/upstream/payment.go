package upstream

import (
	"context"
	"net/url"

	"github.com/foodieapp/storefront-gateway/internal/remote"
)

// Payment outcome statuses reported by the payment service.
const (
	PaymentSuccess = "SUCCESS"
	PaymentFailure = "FAILURE"
)

// PaymentClient calls the payment service.
type PaymentClient struct {
	rc *remote.Client
}

func NewPaymentClient(rc *remote.Client) *PaymentClient {
	return &PaymentClient{rc: rc}
}

// CardDetails carries the payment instrument. The gateway passes it through
// verbatim; it never stores or logs card data.
type CardDetails struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
	NameOnCard string `json:"nameOnCard"`
}

// PaymentRequest is the payment service's creation payload.
type PaymentRequest struct {
	OrderID string       `json:"orderId"`
	Amount  float64      `json:"amount"`
	Method  string       `json:"method"`
	Card    *CardDetails `json:"card,omitempty"`
}

// PaymentResult is the payment service's response. Status is PaymentSuccess
// or PaymentFailure; a FAILURE is a valid response, not a transport error.
type PaymentResult struct {
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
}

// Payment is one entry of a payment listing.
type Payment struct {
	ID            string  `json:"id"`
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	TransactionID string  `json:"transactionId"`
	CreatedAt     string  `json:"createdAt"`
}

// Create submits a payment for an order.
func (c *PaymentClient) Create(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var out PaymentResult
	if err := c.rc.Post(ctx, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ByOrder fetches all payments recorded against an order.
func (c *PaymentClient) ByOrder(ctx context.Context, orderID string) ([]Payment, error) {
	var out []Payment
	if err := c.rc.Get(ctx, "/payments/order/"+url.PathEscape(orderID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Recent fetches the latest payments on the platform (admin dashboard).
func (c *PaymentClient) Recent(ctx context.Context) ([]Payment, error) {
	var out []Payment
	if err := c.rc.Get(ctx, "/payments", &out); err != nil {
		return nil, err
	}
	return out, nil
}
