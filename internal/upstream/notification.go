package upstream

import (
	"context"
	"fmt"

	"github.com/foodieapp/storefront-gateway/internal/remote"
)

// NotificationClient calls the notification service.
type NotificationClient struct {
	rc *remote.Client
}

func NewNotificationClient(rc *remote.Client) *NotificationClient {
	return &NotificationClient{rc: rc}
}

// Notification is one user-facing notification.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// Recent fetches the newest notifications for the authenticated user.
func (c *NotificationClient) Recent(ctx context.Context, limit int) ([]Notification, error) {
	path := "/notifications"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out []Notification
	if err := c.rc.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadCount fetches the unread notification count.
func (c *NotificationClient) UnreadCount(ctx context.Context) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.rc.Get(ctx, "/notifications/unread/count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}
