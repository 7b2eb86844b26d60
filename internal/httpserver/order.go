package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
	"github.com/Skotchmaster/little_lemon/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place_order")

	p, err := principal(c)
	if err != nil {
		return err
	}
	order, err := h.Svc.PlaceOrder(ctx, p)
	if err != nil {
		return fail(l, "place_order_error", err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	p, err := principal(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	f := service.OrderFilter{Offset: offset, Limit: limit}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(l, "list_orders_error", "status must be true or false", err)
		}
		f.Status = &status
	}

	total, orders, err := h.Svc.ListVisibleOrders(ctx, p, f)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(orders, max(page, 1), limit, offset, total))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", err.Error(), err)
	}
	order, err := h.Svc.GetVisibleOrder(ctx, p, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) PatchOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.patch_order")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_order_error", err.Error(), err)
	}
	var req transport.PatchOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_order_error", "invalid body", err)
	}

	order, err := h.Svc.UpdateOrder(ctx, p, id, service.OrderPatch{
		DeliveryCrewUsername: req.DeliveryCrewUsername,
		Status:               req.Status,
	})
	if err != nil {
		return fail(l, "patch_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_order_error", err.Error(), err)
	}
	if err := h.Svc.DeleteOrder(ctx, p, id); err != nil {
		return fail(l, "delete_order_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
