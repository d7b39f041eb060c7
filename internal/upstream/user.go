// Package upstream holds thin typed clients for the five backend services
// the gateway talks to. Each client wraps one remote.Client and knows only
// its own service's paths and payload shapes; failure classification and
// auth live in the adapter.
package upstream

import (
	"context"
	"fmt"

	"github.com/foodieapp/storefront-gateway/internal/domain/user"
	"github.com/foodieapp/storefront-gateway/internal/remote"
)

// UserClient calls the user service (accounts, roles, admin stats).
type UserClient struct {
	rc *remote.Client
}

func NewUserClient(rc *remote.Client) *UserClient {
	return &UserClient{rc: rc}
}

// AdminStats is the platform-wide dashboard summary owned by the user
// service.
type AdminStats struct {
	TotalUsers            int     `json:"totalUsers"`
	TotalCustomers        int     `json:"totalCustomers"`
	TotalRestaurantOwners int     `json:"totalRestaurantOwners"`
	ActiveUsers           int     `json:"activeUsers"`
	NewUsersThisMonth     int     `json:"newUsersThisMonth"`
	PlatformRevenue       float64 `json:"platformRevenue"`
	AverageOrderValue     float64 `json:"averageOrderValue"`
}

// Summary is one row of the admin user listing.
type Summary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

// Page is the Spring-style paged listing the user service returns.
type Page struct {
	Content       []Summary `json:"content"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// Profile fetches the authenticated user's profile and normalizes the role
// shape exactly once.
func (c *UserClient) Profile(ctx context.Context) (*user.Profile, error) {
	var raw user.RawProfile
	if err := c.rc.Get(ctx, "/users/profile", &raw); err != nil {
		return nil, err
	}
	p := raw.Normalize()
	return &p, nil
}

// AdminStats fetches the admin dashboard summary.
func (c *UserClient) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.rc.Get(ctx, "/admin/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListUsers fetches one page of the user listing.
func (c *UserClient) ListUsers(ctx context.Context, page, size int) (*Page, error) {
	var out Page
	path := fmt.Sprintf("/admin/users?page=%d&size=%d", page, size)
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUserActive activates or deactivates a user account.
func (c *UserClient) SetUserActive(ctx context.Context, userID string, active bool) error {
	action := "deactivate-user"
	if active {
		action = "activate-user"
	}
	return c.rc.Post(ctx, fmt.Sprintf("/admin/%s/%s", action, userID), nil, nil)
}
