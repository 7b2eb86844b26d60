package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lemon/internal/access"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/service"
	"github.com/Skotchmaster/little_lemon/internal/transport"
)

type GroupHTTP struct {
	Svc *service.GroupService
}

func groupName(c echo.Context) (string, error) {
	name, err := access.GroupForSlug(c.Param("group"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", service.ErrNotFound, err)
	}
	return name, nil
}

func (h *GroupHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "group.list_users")

	group, err := groupName(c)
	if err != nil {
		return fail(l, "list_group_users_error", err)
	}
	users, err := h.Svc.ListGroupUsers(ctx, group)
	if err != nil {
		return fail(l, "list_group_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *GroupHTTP) AddUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "group.add_user")

	group, err := groupName(c)
	if err != nil {
		return fail(l, "add_group_user_error", err)
	}
	var req transport.GroupUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_group_user_error", "invalid body", err)
	}
	if _, err := h.Svc.AddUserToGroup(ctx, group, req.Username); err != nil {
		return fail(l, "add_group_user_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("User added to %s group", group)})
}

func (h *GroupHTTP) RemoveUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "group.remove_user")

	group, err := groupName(c)
	if err != nil {
		return fail(l, "remove_group_user_error", err)
	}
	var req transport.GroupUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "remove_group_user_error", "invalid body", err)
	}
	if _, err := h.Svc.RemoveUserFromGroup(ctx, group, req.Username); err != nil {
		return fail(l, "remove_group_user_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("User removed from %s group", group)})
}

func (h *GroupHTTP) RemoveUserByID(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "group.remove_user_by_id")

	group, err := groupName(c)
	if err != nil {
		return fail(l, "remove_group_user_error", err)
	}
	id, err := parseID(c, "userId")
	if err != nil {
		return badRequest(l, "remove_group_user_error", err.Error(), err)
	}
	if _, err := h.Svc.RemoveUserIDFromGroup(ctx, group, id); err != nil {
		return fail(l, "remove_group_user_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("User removed from %s group", group)})
}
