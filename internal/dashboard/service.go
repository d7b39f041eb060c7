// Package dashboard assembles the role-specific dashboard views from the
// five backend services. Each view is one aggregation request with one
// sub-fetch per service; a down service degrades that section to fallback
// data without affecting the others.
package dashboard

import (
	"context"

	"github.com/foodieapp/storefront-gateway/internal/aggregate"
	"github.com/foodieapp/storefront-gateway/internal/upstream"
)

// Section names within a dashboard result. Stable: the SPA keys off them.
const (
	SectionStats         = "stats"
	SectionProfile       = "profile"
	SectionUsers         = "users"
	SectionRestaurants   = "restaurants"
	SectionOrders        = "orders"
	SectionPayments      = "payments"
	SectionNotifications = "notifications"
)

const (
	userPageSize  = 20
	orderLimit    = 20
	popularLimit  = 10
	notifyLimit   = 10
	allOrdersPage = 0
)

// Service builds dashboard aggregation requests. Stateless; each call
// re-aggregates.
type Service struct {
	agg           *aggregate.Aggregator
	users         *upstream.UserClient
	restaurants   *upstream.RestaurantClient
	orders        *upstream.OrderClient
	payments      *upstream.PaymentClient
	notifications *upstream.NotificationClient
}

func NewService(
	agg *aggregate.Aggregator,
	users *upstream.UserClient,
	restaurants *upstream.RestaurantClient,
	orders *upstream.OrderClient,
	payments *upstream.PaymentClient,
	notifications *upstream.NotificationClient,
) *Service {
	return &Service{
		agg:           agg,
		users:         users,
		restaurants:   restaurants,
		orders:        orders,
		payments:      payments,
		notifications: notifications,
	}
}

// Admin aggregates the platform-wide administrator view.
func (s *Service) Admin(ctx context.Context) aggregate.Result {
	return s.agg.Aggregate(ctx, []aggregate.SubFetch{
		aggregate.Named(SectionStats,
			func(ctx context.Context) (any, error) { return s.users.AdminStats(ctx) },
			fallbackAdminStats),
		aggregate.Named(SectionUsers,
			func(ctx context.Context) (any, error) { return s.users.ListUsers(ctx, 0, userPageSize) },
			fallbackUsers),
		aggregate.Named(SectionRestaurants,
			func(ctx context.Context) (any, error) { return s.restaurants.List(ctx) },
			fallbackRestaurants),
		aggregate.Named(SectionOrders,
			func(ctx context.Context) (any, error) { return s.orders.AllOrders(ctx, allOrdersPage, orderLimit) },
			fallbackOrders),
		aggregate.Named(SectionPayments,
			func(ctx context.Context) (any, error) { return s.payments.Recent(ctx) },
			fallbackPayments),
	})
}

// Owner aggregates the restaurant-owner view.
func (s *Service) Owner(ctx context.Context) aggregate.Result {
	return s.agg.Aggregate(ctx, []aggregate.SubFetch{
		aggregate.Named(SectionProfile,
			func(ctx context.Context) (any, error) { return s.users.Profile(ctx) },
			fallbackProfile),
		aggregate.Named(SectionRestaurants,
			func(ctx context.Context) (any, error) { return s.restaurants.OwnerRestaurants(ctx) },
			fallbackRestaurants),
		aggregate.Named(SectionOrders,
			func(ctx context.Context) (any, error) { return s.orders.RestaurantOrders(ctx, orderLimit) },
			fallbackOrders),
		aggregate.Named(SectionPayments,
			func(ctx context.Context) (any, error) { return s.payments.Recent(ctx) },
			fallbackPayments),
		aggregate.Named(SectionNotifications,
			func(ctx context.Context) (any, error) { return s.notifications.Recent(ctx, notifyLimit) },
			fallbackNotifications),
	})
}

// Customer aggregates the customer home view.
func (s *Service) Customer(ctx context.Context) aggregate.Result {
	return s.agg.Aggregate(ctx, []aggregate.SubFetch{
		aggregate.Named(SectionProfile,
			func(ctx context.Context) (any, error) { return s.users.Profile(ctx) },
			fallbackProfile),
		aggregate.Named(SectionRestaurants,
			func(ctx context.Context) (any, error) { return s.restaurants.Popular(ctx, popularLimit) },
			fallbackRestaurants),
		aggregate.Named(SectionOrders,
			func(ctx context.Context) (any, error) { return s.orders.MyOrders(ctx, orderLimit) },
			fallbackOrders),
		aggregate.Named(SectionPayments,
			func(ctx context.Context) (any, error) { return s.payments.Recent(ctx) },
			fallbackPayments),
		aggregate.Named(SectionNotifications,
			func(ctx context.Context) (any, error) { return s.notifications.Recent(ctx, notifyLimit) },
			fallbackNotifications),
	})
}
