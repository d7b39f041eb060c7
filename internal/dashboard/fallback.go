package dashboard

import (
	"github.com/foodieapp/storefront-gateway/internal/domain/user"
	"github.com/foodieapp/storefront-gateway/internal/upstream"
)

// Fallback datasets served when an upstream is down. They are deterministic
// and shaped exactly like live responses, so rendering code never branches on
// missing data, only on the source tag. Values are internally consistent:
// totals non-negative, counts whole, statuses drawn from the real enums.

func fallbackAdminStats() any {
	return &upstream.AdminStats{
		TotalUsers:            1250,
		TotalCustomers:        1180,
		TotalRestaurantOwners: 65,
		ActiveUsers:           980,
		NewUsersThisMonth:     45,
		PlatformRevenue:       125420.50,
		AverageOrderValue:     32.45,
	}
}

func fallbackProfile() any {
	return &user.Profile{
		ID:        "demo-user",
		Username:  "demo_user",
		Email:     "demo@foodie.example",
		FirstName: "Demo",
		LastName:  "User",
		Role:      user.RoleCustomer,
	}
}

func fallbackUsers() any {
	return &upstream.Page{
		Content: []upstream.Summary{
			{ID: "1", Username: "john_doe", Email: "john.doe@example.com", Role: "ROLE_CUSTOMER", IsActive: true, CreatedAt: "2024-01-15T08:30:00Z"},
			{ID: "2", Username: "jane_smith", Email: "jane.smith@example.com", Role: "ROLE_CUSTOMER", IsActive: true, CreatedAt: "2024-01-20T10:15:00Z"},
			{ID: "3", Username: "mario_rossi", Email: "mario@pizzapalace.com", Role: "ROLE_RESTAURANT_OWNER", IsActive: true, CreatedAt: "2024-01-10T09:00:00Z"},
		},
		TotalElements: 3,
		TotalPages:    1,
		Size:          20,
	}
}

func fallbackRestaurants() any {
	return []upstream.Restaurant{
		{ID: "r-1", Name: "Pizza Palace", CuisineType: "Italian", Rating: 4.6, IsVerified: true, City: "New York"},
		{ID: "r-2", Name: "Taco Fiesta", CuisineType: "Mexican", Rating: 4.4, IsVerified: true, City: "Los Angeles"},
		{ID: "r-3", Name: "Burger Joint", CuisineType: "American", Rating: 4.1, IsVerified: false, City: "Chicago"},
	}
}

func fallbackOrders() any {
	return []upstream.Order{
		{ID: "ORD_001", RestaurantID: "r-1", RestaurantName: "Pizza Palace", TotalAmount: 58.29, Status: "PENDING", CreatedAt: "2024-01-28T18:45:00Z"},
		{ID: "ORD_002", RestaurantID: "r-2", RestaurantName: "Taco Fiesta", TotalAmount: 41.55, Status: "PREPARING", CreatedAt: "2024-01-28T17:10:00Z"},
		{ID: "ORD_003", RestaurantID: "r-1", RestaurantName: "Pizza Palace", TotalAmount: 23.90, Status: "DELIVERED", CreatedAt: "2024-01-27T20:05:00Z"},
	}
}

func fallbackPayments() any {
	return []upstream.Payment{
		{ID: "pay-1", OrderID: "ORD_003", Amount: 23.90, Status: "SUCCESS", TransactionID: "TXN_1001", CreatedAt: "2024-01-27T20:06:00Z"},
		{ID: "pay-2", OrderID: "ORD_002", Amount: 41.55, Status: "SUCCESS", TransactionID: "TXN_1002", CreatedAt: "2024-01-28T17:11:00Z"},
	}
}

func fallbackNotifications() any {
	return []upstream.Notification{
		{ID: "n-1", Type: "ORDER_STATUS", Message: "Your order at Pizza Palace is being prepared", IsRead: false, CreatedAt: "2024-01-28T18:50:00Z"},
		{ID: "n-2", Type: "PROMO", Message: "Free delivery this weekend", IsRead: true, CreatedAt: "2024-01-26T09:00:00Z"},
	}
}
