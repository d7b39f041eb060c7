package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/foodieapp/storefront-gateway/internal/domain/cart"
	"github.com/foodieapp/storefront-gateway/internal/remote"
)

// OrderClient calls the order service: order placement, order history, and
// the remote cart mirror.
type OrderClient struct {
	rc *remote.Client
}

func NewOrderClient(rc *remote.Client) *OrderClient {
	return &OrderClient{rc: rc}
}

// OrderLineItem is one line of an order-creation request.
type OrderLineItem struct {
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// CreateOrderRequest is the order service's creation payload.
type CreateOrderRequest struct {
	Items           []OrderLineItem `json:"items"`
	RestaurantID    string          `json:"restaurantId"`
	DeliveryAddress string          `json:"deliveryAddress"`
	TotalAmount     float64         `json:"totalAmount"`
}

// OrderConfirmation is the order service's response to a creation request.
type OrderConfirmation struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Order is one entry of an order listing.
type Order struct {
	ID             string  `json:"id"`
	RestaurantID   string  `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName"`
	TotalAmount    float64 `json:"totalAmount"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
}

// Create places an order.
func (c *OrderClient) Create(ctx context.Context, req CreateOrderRequest) (*OrderConfirmation, error) {
	var out OrderConfirmation
	if err := c.rc.Post(ctx, "/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyOrders fetches the authenticated customer's order history.
func (c *OrderClient) MyOrders(ctx context.Context, limit int) ([]Order, error) {
	path := "/orders/my"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out []Order
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RestaurantOrders fetches orders for the authenticated owner's restaurants.
func (c *OrderClient) RestaurantOrders(ctx context.Context, limit int) ([]Order, error) {
	path := "/orders/restaurant"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out []Order
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllOrders fetches one page of every order on the platform (admin only).
func (c *OrderClient) AllOrders(ctx context.Context, page, size int) ([]Order, error) {
	var out []Order
	path := fmt.Sprintf("/orders?page=%d&size=%d", page, size)
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves an order through its lifecycle (owner dashboards).
func (c *OrderClient) UpdateStatus(ctx context.Context, orderID, status, notes string) error {
	body := map[string]string{"status": status, "notes": notes}
	return c.rc.Put(ctx, "/orders/"+url.PathEscape(orderID)+"/status", body, nil)
}

// --- Cart mirror ---

// wireCartLine is the cart snapshot's wire shape.
type wireCartLine struct {
	MenuItemID     string  `json:"menuItemId"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	RestaurantID   string  `json:"restaurantId"`
	RestaurantName string  `json:"restaurantName"`
}

type wireCart struct {
	Items        []wireCartLine `json:"items"`
	RestaurantID string         `json:"restaurantId"`
}

// CartMirror shadows a session's cart to the order service with full-snapshot
// writes. Because every push carries the complete cart, out-of-order arrival
// is harmless: the last write wins.
type CartMirror struct {
	rc *remote.Client
}

var _ cart.Mirror = (*CartMirror)(nil)

func NewCartMirror(rc *remote.Client) *CartMirror {
	return &CartMirror{rc: rc}
}

// Push overwrites the remote cart with the snapshot.
func (m *CartMirror) Push(ctx context.Context, snap cart.Snapshot) error {
	body := wireCart{
		Items:        make([]wireCartLine, len(snap.Lines)),
		RestaurantID: snap.RestaurantID,
	}
	for i, line := range snap.Lines {
		body.Items[i] = wireCartLine{
			MenuItemID:     line.ItemID,
			Name:           line.Name,
			Price:          line.UnitPrice.InexactFloat64(),
			Quantity:       line.Quantity,
			RestaurantID:   line.RestaurantID,
			RestaurantName: line.RestaurantName,
		}
	}
	return m.rc.Put(ctx, "/cart", body, nil)
}

// Fetch loads the remote cart snapshot for session hydration.
func (m *CartMirror) Fetch(ctx context.Context) (*cart.Snapshot, error) {
	var wire wireCart
	if err := m.rc.Get(ctx, "/cart", &wire); err != nil {
		return nil, err
	}

	snap := &cart.Snapshot{RestaurantID: wire.RestaurantID}
	for _, item := range wire.Items {
		snap.Lines = append(snap.Lines, cart.Line{
			ItemID:         item.MenuItemID,
			Name:           item.Name,
			UnitPrice:      decimal.NewFromFloat(item.Price),
			Quantity:       item.Quantity,
			RestaurantID:   item.RestaurantID,
			RestaurantName: item.RestaurantName,
		})
	}
	return snap, nil
}
