package transport

import "github.com/Skotchmaster/little_lemon/internal/pricing"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessExp    int64  `json:"access_exp"`
	RefreshExp   int64  `json:"refresh_exp"`
}

type CreateCategoryRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type PatchCategoryRequest struct {
	Slug  *string `json:"slug"`
	Title *string `json:"title"`
}

type CreateMenuItemRequest struct {
	Title      string         `json:"title"`
	Price      *pricing.Money `json:"price"`
	Featured   bool           `json:"featured"`
	CategoryID uint           `json:"category_id"`
}

type PatchMenuItemRequest struct {
	Title      *string        `json:"title"`
	Price      *pricing.Money `json:"price"`
	Featured   *bool          `json:"featured"`
	CategoryID *uint          `json:"category_id"`
}

type AddToCartRequest struct {
	MenuItemID uint `json:"menuitem_id"`
	Quantity   int  `json:"quantity"`
}

type PatchOrderRequest struct {
	DeliveryCrewUsername *string `json:"delivery_crew_username"`
	Status               *bool   `json:"status"`
}

type GroupUserRequest struct {
	Username string `json:"username"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type Page[T any] struct {
	Data []T     `json:"data"`
	Meta PageMeta `json:"meta"`
}

func NewPage[T any](items []T, page, size, offset int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data: items,
		Meta: PageMeta{
			Page:       page,
			Size:       size,
			Total:      total,
			TotalPages: (total + int64(size) - 1) / int64(size),
			HasPrev:    page > 1,
			HasNext:    int64(offset+size) < total,
		},
	}
}
