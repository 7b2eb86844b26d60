// Package access resolves caller roles and decides who may see or change an order.
package access

import (
	"fmt"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

type Role int

const (
	RoleCustomer Role = iota
	RoleDeliveryCrew
	RoleManager
)

func (r Role) String() string {
	switch r {
	case RoleManager:
		return "manager"
	case RoleDeliveryCrew:
		return "delivery_crew"
	default:
		return "customer"
	}
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// RoleFromGroups maps group membership to a role. Manager wins over Delivery Crew.
func RoleFromGroups(groups []string) Role {
	role := RoleCustomer
	for _, g := range groups {
		switch g {
		case models.GroupManager:
			return RoleManager
		case models.GroupDeliveryCrew:
			role = RoleDeliveryCrew
		}
	}
	return role
}

// GroupForSlug resolves the URL form of a role group ("manager", "delivery-crew").
func GroupForSlug(slug string) (string, error) {
	switch slug {
	case "manager":
		return models.GroupManager, nil
	case "delivery-crew":
		return models.GroupDeliveryCrew, nil
	default:
		return "", fmt.Errorf("unknown group %q", slug)
	}
}

// Principal is the authenticated caller, resolved once per request.
type Principal struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// CanManageStaff reports whether the caller may edit the menu and role groups.
func (p Principal) CanManageStaff() bool {
	return p.IsAdmin || p.Role == RoleManager
}
