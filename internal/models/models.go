package models

import (
	"time"

	"github.com/Skotchmaster/little_lemon/internal/pricing"
)

const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

// RoleGroups lists the groups seeded at migration time.
var RoleGroups = []string{GroupManager, GroupDeliveryCrew}

type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string  `gorm:"uniqueIndex;not null"      json:"username"`
	Email        string  `gorm:"not null;default:''"       json:"email"`
	PasswordHash string  `gorm:"not null"                  json:"-"`
	IsAdmin      bool    `gorm:"not null;default:false"    json:"is_admin"`
	Groups       []Group `gorm:"many2many:user_groups;"    json:"-"`
}

type Group struct {
	ID   uint   `gorm:"primaryKey"           json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	TokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false" json:"revoked"`
}

type Category struct {
	ID    uint   `gorm:"primaryKey"                    json:"id"`
	Slug  string `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Title string `gorm:"index;size:255;not null"       json:"title"`
}

type MenuItem struct {
	ID         uint          `gorm:"primaryKey"                          json:"id"`
	Title      string        `gorm:"index;size:255;not null"             json:"title"`
	Price      pricing.Money `gorm:"type:decimal(10,2);index;not null"   json:"price"`
	Featured   bool          `gorm:"index;not null;default:false"        json:"featured"`
	CategoryID uint          `gorm:"index;not null"                      json:"category_id"`
	Category   *Category     `gorm:"constraint:OnDelete:RESTRICT;"       json:"category,omitempty"`
}

// CartLine is unique per (user, menu item). UnitPrice and Price are snapshots
// taken when the line was added or last updated.
type CartLine struct {
	ID         uint          `gorm:"primaryKey"                                    json:"id"`
	UserID     uint          `gorm:"uniqueIndex:idx_cart_user_menuitem;not null"   json:"user_id"`
	MenuItemID uint          `gorm:"uniqueIndex:idx_cart_user_menuitem;not null"   json:"menuitem_id"`
	MenuItem   *MenuItem     `gorm:"constraint:OnDelete:CASCADE;"                  json:"-"`
	Quantity   int           `gorm:"not null;check:quantity > 0"                   json:"quantity"`
	UnitPrice  pricing.Money `gorm:"type:decimal(10,2);not null"                   json:"unit_price"`
	Price      pricing.Money `gorm:"type:decimal(10,2);not null"                   json:"price"`
}

type Order struct {
	ID             uint          `gorm:"primaryKey"                                       json:"id"`
	UserID         uint          `gorm:"index;not null"                                   json:"user_id"`
	DeliveryCrewID *uint         `gorm:"index"                                            json:"delivery_crew_id"`
	Status         bool          `gorm:"index;not null;default:false"                    json:"status"`
	Total          pricing.Money `gorm:"type:decimal(10,2);not null"                      json:"total"`
	CreatedAt      time.Time     `gorm:"index;not null"                                   json:"date"`
	Lines          []OrderLine   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;"  json:"order_items"`
}

// OrderLine is an immutable copy of a cart line made at order placement.
type OrderLine struct {
	ID         uint          `gorm:"primaryKey"                     json:"id"`
	OrderID    uint          `gorm:"index;not null"                 json:"order_id"`
	MenuItemID uint          `gorm:"index;not null"                 json:"menuitem_id"`
	MenuItem   *MenuItem     `gorm:"constraint:OnDelete:RESTRICT;"  json:"-"`
	Quantity   int           `gorm:"not null;check:quantity > 0"    json:"quantity"`
	UnitPrice  pricing.Money `gorm:"type:decimal(10,2);not null"    json:"unit_price"`
	Price      pricing.Money `gorm:"type:decimal(10,2);not null"    json:"price"`
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{}, &Group{}, &RefreshToken{},
		&Category{}, &MenuItem{},
		&CartLine{}, &Order{}, &OrderLine{},
	}
}
