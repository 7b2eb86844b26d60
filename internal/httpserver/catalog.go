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

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_category")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_category_error", err.Error(), err)
	}
	category, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_category_error", "invalid body", err)
	}
	category, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return fail(l, "create_category_error", err)
	}

	l.Info("create_category_success", "category_id", category.ID)
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_category")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_category_error", err.Error(), err)
	}
	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_category_error", "invalid body", err)
	}
	category, err := h.Svc.PatchCategory(ctx, id, req)
	if err != nil {
		return fail(l, "patch_category_error", err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_category_error", err.Error(), err)
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category_error", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) ListMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_menu_items")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	f := service.MenuFilter{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
		Offset:   offset,
		Limit:    limit,
	}
	if raw := c.QueryParam("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(l, "list_menu_items_error", "featured must be true or false", err)
		}
		f.Featured = &featured
	}

	total, items, err := h.Svc.ListMenuItems(ctx, f)
	if err != nil {
		return fail(l, "list_menu_items_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, max(page, 1), limit, offset, total))
}

func (h *CatalogHTTP) GetMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_menu_item")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "get_menu_item_error", err.Error(), err)
	}
	item, err := h.Svc.GetMenuItem(ctx, id)
	if err != nil {
		return fail(l, "get_menu_item_error", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_menu_item")

	var req transport.CreateMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_menu_item_error", "invalid body", err)
	}
	item, err := h.Svc.CreateMenuItem(ctx, req)
	if err != nil {
		return fail(l, "create_menu_item_error", err)
	}

	l.Info("create_menu_item_success", "menuitem_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHTTP) PatchMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_menu_item")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "patch_menu_item_error", err.Error(), err)
	}
	var req transport.PatchMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_menu_item_error", "invalid body", err)
	}
	item, err := h.Svc.PatchMenuItem(ctx, id, req)
	if err != nil {
		return fail(l, "patch_menu_item_error", err)
	}

	l.Info("patch_menu_item_success", "menuitem_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_menu_item")

	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(l, "delete_menu_item_error", err.Error(), err)
	}
	if err := h.Svc.DeleteMenuItem(ctx, id); err != nil {
		return fail(l, "delete_menu_item_error", err)
	}

	l.Info("delete_menu_item_success", "menuitem_id", id)
	return c.NoContent(http.StatusNoContent)
}
