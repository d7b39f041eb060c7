// Package user holds the session identity types shared by the dashboards.
package user

import "strings"

// Role is the normalized platform role. The user service is inconsistent
// about how it reports roles (a bare string, a ROLE_-prefixed string, or an
// array), so raw payloads are normalized exactly once at session hydration
// and everything downstream works with this type only.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleAdmin           Role = "admin"
	RoleUnknown         Role = "unknown"
)

// Profile is the hydrated session identity.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// RawProfile mirrors the wire shapes the user service actually sends.
type RawProfile struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Role      string   `json:"role"`
	Roles     []string `json:"roles"`
}

// Normalize converts a raw user payload into a Profile with a single
// canonical role.
func (r RawProfile) Normalize() Profile {
	return Profile{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      NormalizeRole(r.Role, r.Roles),
	}
}

// NormalizeRole maps whichever role shape the upstream sent to a Role.
// A populated single role wins; otherwise the first recognized entry of the
// roles array is used.
func NormalizeRole(role string, roles []string) Role {
	if r := parseRole(role); r != RoleUnknown {
		return r
	}
	for _, raw := range roles {
		if r := parseRole(raw); r != RoleUnknown {
			return r
		}
	}
	return RoleUnknown
}

func parseRole(raw string) Role {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.TrimPrefix(normalized, "ROLE_")
	switch normalized {
	case "CUSTOMER", "USER":
		return RoleCustomer
	case "RESTAURANT_OWNER", "OWNER", "RESTAURANT":
		return RoleRestaurantOwner
	case "ADMIN", "SUPER_ADMIN":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}
