package access

import (
	"errors"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

var ErrPermissionDenied = errors.New("permission denied")

// Scope is the set of orders visible to a principal. Exactly one field is set.
type Scope struct {
	All            bool
	OwnerID        *uint
	DeliveryCrewID *uint
}

func OrderScope(p Principal) Scope {
	id := p.UserID
	switch p.Role {
	case RoleManager:
		return Scope{All: true}
	case RoleDeliveryCrew:
		return Scope{DeliveryCrewID: &id}
	default:
		return Scope{OwnerID: &id}
	}
}

func assignedTo(o models.Order, userID uint) bool {
	return o.DeliveryCrewID != nil && *o.DeliveryCrewID == userID
}

func CanView(p Principal, o models.Order) bool {
	switch p.Role {
	case RoleManager:
		return true
	case RoleDeliveryCrew:
		return assignedTo(o, p.UserID)
	default:
		return o.UserID == p.UserID
	}
}

// OrderChange names the fields a patch touches.
type OrderChange struct {
	DeliveryCrew bool
	Status       bool
}

func AuthorizeUpdate(p Principal, o models.Order, ch OrderChange) error {
	switch p.Role {
	case RoleManager:
		return nil
	case RoleDeliveryCrew:
		if ch.DeliveryCrew {
			return ErrPermissionDenied
		}
		if !assignedTo(o, p.UserID) {
			return ErrPermissionDenied
		}
		return nil
	default:
		return ErrPermissionDenied
	}
}

func AuthorizeDelete(p Principal) error {
	if p.Role != RoleManager {
		return ErrPermissionDenied
	}
	return nil
}
