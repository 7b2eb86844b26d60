package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	p, err := principal(c)
	if err != nil {
		return err
	}
	lines, err := h.Svc.ListLines(ctx, p)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, lines)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}
	if req.MenuItemID == 0 {
		return badRequest(l, "add_to_cart_error", "menuitem_id required", nil)
	}

	line, err := h.Svc.AddOrUpdateLine(ctx, p, req.MenuItemID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "menuitem_id", req.MenuItemID, "quantity", req.Quantity)
	return c.JSON(http.StatusCreated, line)
}

// ClearCart empties the cart, or drops a single menu item when ?menuitem_id is set.
func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear_cart")

	p, err := principal(c)
	if err != nil {
		return err
	}

	if raw := c.QueryParam("menuitem_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return badRequest(l, "clear_cart_error", "menuitem_id must be a positive integer", err)
		}
		if err := h.Svc.RemoveLine(ctx, p, uint(id)); err != nil {
			return fail(l, "clear_cart_error", err)
		}
		return c.NoContent(http.StatusNoContent)
	}

	if err := h.Svc.Clear(ctx, p); err != nil {
		return fail(l, "clear_cart_error", err)
	}
	l.Info("clear_cart_success")
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) DeleteLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete_line")

	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_line_error", err.Error(), err)
	}
	if err := h.Svc.RemoveLineByID(ctx, p, id); err != nil {
		return fail(l, "delete_line_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
