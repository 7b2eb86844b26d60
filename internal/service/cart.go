package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/pricing"
	"github.com/Skotchmaster/little_lemon/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) ListLines(ctx context.Context, p access.Principal) ([]models.CartLine, error) {
	lines, err := s.Repo.ListCartLines(ctx, p.UserID)
	if err != nil {
		return nil, mapRepoErr(err, "list cart")
	}
	return lines, nil
}

// AddOrUpdateLine sets the caller's line for menuItemID to quantity,
// snapshotting the current unit price. A second add overwrites the first.
func (s *CartService) AddOrUpdateLine(ctx context.Context, p access.Principal, menuItemID uint, quantity int) (*models.CartLine, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add", "user_id", p.UserID, "menuitem_id", menuItemID)

	item, err := s.Repo.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, mapRepoErr(err, "menu item")
	}
	if quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidQuantity)
	}

	total, err := pricing.LineTotal(item.Price, quantity)
	if err != nil {
		return nil, err
	}

	line := &models.CartLine{
		UserID:     p.UserID,
		MenuItemID: item.ID,
		Quantity:   quantity,
		UnitPrice:  item.Price,
		Price:      total,
	}
	if err := s.Repo.UpsertCartLine(ctx, line); err != nil {
		l.Error("cart_add_error", "error", err)
		return nil, mapRepoErr(err, "save cart line")
	}

	l.Debug("cart_add_success", "quantity", quantity, "price", line.Price.String())
	return line, nil
}

// RemoveLine drops the caller's line for menuItemID. Missing lines are ignored.
func (s *CartService) RemoveLine(ctx context.Context, p access.Principal, menuItemID uint) error {
	if err := s.Repo.DeleteCartLineByMenuItem(ctx, p.UserID, menuItemID); err != nil {
		return mapRepoErr(err, "remove cart line")
	}
	return nil
}

func (s *CartService) RemoveLineByID(ctx context.Context, p access.Principal, lineID uint) error {
	n, err := s.Repo.DeleteCartLine(ctx, p.UserID, lineID)
	if err != nil {
		return mapRepoErr(err, "remove cart line")
	}
	if n == 0 {
		return fmt.Errorf("cart line %d: %w", lineID, ErrNotFound)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, p access.Principal) error {
	if err := s.Repo.ClearCart(ctx, p.UserID); err != nil {
		return mapRepoErr(err, "clear cart")
	}
	return nil
}
