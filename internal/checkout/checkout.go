// Package checkout coordinates the order-then-payment flow for a session
// cart. It is a thin orchestrator: order placement and payment live in their
// services, and any reconciliation of half-finished checkouts is the
// backend's job.
package checkout

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/foodieapp/storefront-gateway/internal/domain/cart"
	"github.com/foodieapp/storefront-gateway/internal/upstream"
)

// ErrEmptyCart is returned when checkout is attempted on an empty cart. No
// remote call is issued in that case.
var ErrEmptyCart = errors.New("cart is empty")

// PaymentDeclinedError reports a payment the payment service processed and
// rejected. The order already exists; the backend reconciles it from the
// payment-pending state.
type PaymentDeclinedError struct {
	OrderID       string
	TransactionID string
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined for order %s", e.OrderID)
}

// OrderPlacer places orders. Implemented by upstream.OrderClient.
type OrderPlacer interface {
	Create(ctx context.Context, req upstream.CreateOrderRequest) (*upstream.OrderConfirmation, error)
}

// PaymentProcessor charges orders. Implemented by upstream.PaymentClient.
type PaymentProcessor interface {
	Create(ctx context.Context, req upstream.PaymentRequest) (*upstream.PaymentResult, error)
}

var (
	_ OrderPlacer      = (*upstream.OrderClient)(nil)
	_ PaymentProcessor = (*upstream.PaymentClient)(nil)
)

// Request carries the checkout details the cart does not know.
type Request struct {
	DeliveryAddress string                `json:"deliveryAddress"`
	PaymentMethod   string                `json:"paymentMethod"`
	Card            *upstream.CardDetails `json:"card,omitempty"`
}

// Confirmation is the result of a fully settled checkout.
type Confirmation struct {
	OrderID       string  `json:"orderId"`
	OrderStatus   string  `json:"orderStatus"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
}

// Service runs checkouts.
type Service struct {
	orders   OrderPlacer
	payments PaymentProcessor
	lg       *zap.Logger
}

// NewService creates a checkout Service. lg may be nil.
func NewService(orders OrderPlacer, payments PaymentProcessor, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{orders: orders, payments: payments, lg: lg}
}

// Checkout places an order for the cart's current contents, charges it, and
// clears the cart once both have succeeded. Errors from the order and payment
// services propagate as-is: a checkout never substitutes synthetic data, and
// a failed payment leaves both the cart and the created order in place.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, req Request) (*Confirmation, error) {
	snap := c.Snapshot()
	if snap.Empty() {
		return nil, ErrEmptyCart
	}

	order, err := s.orders.Create(ctx, buildOrderRequest(snap, req.DeliveryAddress))
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	payment, err := s.payments.Create(ctx, upstream.PaymentRequest{
		OrderID: order.ID,
		Amount:  snap.Subtotal.InexactFloat64(),
		Method:  req.PaymentMethod,
		Card:    req.Card,
	})
	if err != nil {
		s.lg.Warn("payment call failed, order left pending",
			zap.String("order_id", order.ID), zap.Error(err))
		return nil, errors.Wrap(err, "process payment")
	}
	if payment.Status != upstream.PaymentSuccess {
		s.lg.Info("payment declined",
			zap.String("order_id", order.ID),
			zap.String("transaction_id", payment.TransactionID))
		return nil, &PaymentDeclinedError{OrderID: order.ID, TransactionID: payment.TransactionID}
	}

	// Local clear only. The order service owns the cart record now and
	// clears its copy as part of order placement.
	c.ClearLocal()

	return &Confirmation{
		OrderID:       order.ID,
		OrderStatus:   order.Status,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
	}, nil
}

// buildOrderRequest converts a cart snapshot into the order service's
// payload. The snapshot is already a deep copy, so later cart mutations do
// not touch the in-flight order.
func buildOrderRequest(snap cart.Snapshot, address string) upstream.CreateOrderRequest {
	items := make([]upstream.OrderLineItem, len(snap.Lines))
	for i, line := range snap.Lines {
		items[i] = upstream.OrderLineItem{
			MenuItemID: line.ItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			Price:      line.UnitPrice.InexactFloat64(),
		}
	}
	return upstream.CreateOrderRequest{
		Items:           items,
		RestaurantID:    snap.RestaurantID,
		DeliveryAddress: address,
		TotalAmount:     snap.Subtotal.InexactFloat64(),
	}
}
