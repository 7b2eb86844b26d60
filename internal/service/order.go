package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/pricing"
	"github.com/Skotchmaster/little_lemon/internal/repo"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

// OrderFilter narrows ListVisibleOrders. Limit 0 means no limit.
type OrderFilter struct {
	Status *bool
	Offset int
	Limit  int
}

// OrderPatch holds the mutable order fields. A nil field is left untouched;
// an empty DeliveryCrewUsername unassigns the order.
type OrderPatch struct {
	DeliveryCrewUsername *string
	Status               *bool
}

type OrderEvent struct {
	Type           string `json:"type"`
	OrderID        uint   `json:"order_id"`
	UserID         uint   `json:"user_id"`
	DeliveryCrewID *uint  `json:"delivery_crew_id,omitempty"`
	Status         bool   `json:"status"`
	Total          string `json:"total"`
	ActorID        uint   `json:"actor_id"`
	At             int64  `json:"at"`
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) publish(ctx context.Context, typ string, o *models.Order, actor access.Principal) {
	ev := OrderEvent{
		Type:           typ,
		OrderID:        o.ID,
		UserID:         o.UserID,
		DeliveryCrewID: o.DeliveryCrewID,
		Status:         o.Status,
		Total:          o.Total.String(),
		ActorID:        actor.UserID,
		At:             s.now().Unix(),
	}
	l := logging.FromContext(ctx)
	events.Publish(ctx, s.Events, events.TopicOrders, strconv.FormatUint(uint64(o.ID), 10), ev, l.Warn)
}

// PlaceOrder turns the caller's cart into an order. Reading the cart, writing
// the order and its lines and emptying the cart happen in one transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, p access.Principal) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", p.UserID)

	var order models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		lines, err := tx.LockCartLines(ctx, p.UserID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		totals := make([]pricing.Money, 0, len(lines))
		ids := make([]uint, 0, len(lines))
		for _, line := range lines {
			totals = append(totals, line.Price)
			ids = append(ids, line.ID)
		}

		total := pricing.Sum(totals...)
		if !total.Fits() {
			return fmt.Errorf("order total %s exceeds %s: %w", total, pricing.MaxAmount, ErrValidation)
		}

		order = models.Order{
			UserID:    p.UserID,
			Total:     total,
			CreatedAt: s.now(),
		}
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}

		order.Lines = make([]models.OrderLine, 0, len(lines))
		for _, line := range lines {
			order.Lines = append(order.Lines, models.OrderLine{
				OrderID:    order.ID,
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Price:      line.Price,
			})
		}
		if err := tx.CreateOrderLines(ctx, order.Lines); err != nil {
			return err
		}

		deleted, err := tx.DeleteCartLinesByID(ctx, ids)
		if err != nil {
			return err
		}
		if deleted != int64(len(ids)) {
			return fmt.Errorf("cart changed during checkout: %w", ErrConflict)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrValidation) {
			l.Warn("place_order_error", "status", 400, "error", err)
			return nil, err
		}
		err = mapRepoErr(err, "place order")
		if errors.Is(err, ErrConflict) {
			l.Warn("place_order_error", "status", 409, "error", err)
		} else {
			l.Error("place_order_error", "status", 500, "error", err)
		}
		return nil, err
	}

	l.Info("place_order_success", "order_id", order.ID, "total", order.Total.String(), "lines", len(order.Lines))
	s.publish(ctx, "order_placed", &order, p)
	return &order, nil
}

func (s *OrderService) ListVisibleOrders(ctx context.Context, p access.Principal, f OrderFilter) (int64, []models.Order, error) {
	scope := access.OrderScope(p)
	q := repo.OrderQuery{
		OwnerID:        scope.OwnerID,
		DeliveryCrewID: scope.DeliveryCrewID,
		Status:         f.Status,
		Offset:         f.Offset,
		Limit:          f.Limit,
	}
	total, orders, err := s.Repo.ListOrders(ctx, q)
	if err != nil {
		return 0, nil, mapRepoErr(err, "list orders")
	}
	return total, orders, nil
}

// GetVisibleOrder reports orders the caller may not see as not found.
func (s *OrderService) GetVisibleOrder(ctx context.Context, p access.Principal, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("order %d", id))
	}
	if !access.CanView(p, *order) {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return order, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, p access.Principal, id uint, patch OrderPatch) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update", "user_id", p.UserID, "order_id", id)

	if patch.DeliveryCrewUsername == nil && patch.Status == nil {
		return nil, fmt.Errorf("nothing to update: %w", ErrValidation)
	}

	var updated *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return mapRepoErr(err, fmt.Sprintf("order %d", id))
		}

		change := access.OrderChange{
			DeliveryCrew: patch.DeliveryCrewUsername != nil,
			Status:       patch.Status != nil,
		}
		if err := access.AuthorizeUpdate(p, *order, change); err != nil {
			return err
		}

		fields := map[string]any{}
		if patch.DeliveryCrewUsername != nil {
			crewID, err := resolveDeliveryCrew(ctx, tx, *patch.DeliveryCrewUsername)
			if err != nil {
				return err
			}
			if crewID == nil {
				fields["delivery_crew_id"] = nil
			} else {
				fields["delivery_crew_id"] = *crewID
			}
		}
		if patch.Status != nil {
			fields["status"] = *patch.Status
		}

		if err := tx.UpdateOrderFields(ctx, id, fields); err != nil {
			return err
		}
		updated, err = tx.GetOrder(ctx, id)
		return err
	})
	if err != nil {
		err = mapRepoErr(err, "update order")
		l.Warn("update_order_error", "error", err)
		return nil, err
	}

	l.Info("update_order_success", "status", updated.Status, "assigned", updated.DeliveryCrewID != nil)
	s.publish(ctx, "order_updated", updated, p)
	return updated, nil
}

// resolveDeliveryCrew returns nil for an empty username.
func resolveDeliveryCrew(ctx context.Context, tx *repo.GormRepo, username string) (*uint, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}

	user, err := tx.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("user %q", username))
	}
	group, err := tx.GetGroupByName(ctx, models.GroupDeliveryCrew)
	if err != nil {
		return nil, mapRepoErr(err, "delivery crew group")
	}
	member, err := tx.IsGroupMember(ctx, user.ID, group.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("user %q is not in %s: %w", username, models.GroupDeliveryCrew, ErrNotFound)
	}
	return &user.ID, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, p access.Principal, id uint) error {
	l := logging.FromContext(ctx).With("svc", "order.delete", "user_id", p.UserID, "order_id", id)

	if err := access.AuthorizeDelete(p); err != nil {
		l.Warn("delete_order_error", "status", 403)
		return err
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return mapRepoErr(err, fmt.Sprintf("order %d", id))
	}
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		err = mapRepoErr(err, fmt.Sprintf("order %d", id))
		l.Warn("delete_order_error", "error", err)
		return err
	}

	l.Info("delete_order_success")
	s.publish(ctx, "order_deleted", order, p)
	return nil
}
