package upstream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/foodieapp/storefront-gateway/internal/remote"
)

// RestaurantClient calls the restaurant service (catalog and menus).
type RestaurantClient struct {
	rc *remote.Client
}

func NewRestaurantClient(rc *remote.Client) *RestaurantClient {
	return &RestaurantClient{rc: rc}
}

// Restaurant is the catalog entry shown on dashboards.
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CuisineType string  `json:"cuisineType"`
	Rating      float64 `json:"rating"`
	IsVerified  bool    `json:"isVerified"`
	City        string  `json:"city"`
}

// MenuItem is one orderable dish on a restaurant's menu.
type MenuItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// List fetches every publicly visible restaurant.
func (c *RestaurantClient) List(ctx context.Context) ([]Restaurant, error) {
	var out []Restaurant
	if err := c.rc.Get(ctx, "/restaurants", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Popular fetches the most ordered restaurants.
func (c *RestaurantClient) Popular(ctx context.Context, limit int) ([]Restaurant, error) {
	var out []Restaurant
	path := fmt.Sprintf("/restaurants?popular=true&limit=%d", limit)
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerRestaurants fetches the restaurants owned by the authenticated user.
func (c *RestaurantClient) OwnerRestaurants(ctx context.Context) ([]Restaurant, error) {
	var out []Restaurant
	if err := c.rc.Get(ctx, "/owner/restaurants", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Menu fetches a restaurant's menu.
func (c *RestaurantClient) Menu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	var out []MenuItem
	path := "/restaurants/" + url.PathEscape(restaurantID) + "/menu"
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}
