package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/little_lemon/internal/middleware/auth"
	"github.com/Skotchmaster/little_lemon/internal/middleware/csrf"
)

type Deps struct {
	Auth          *AuthHTTP
	Catalog       *CatalogHTTP
	Cart          *CartHTTP
	Orders        *OrderHTTP
	Groups        *GroupHTTP
	Authenticator authmw.Authenticator
	// Ready reports whether the database is reachable.
	Ready func(ctx context.Context) error
	CSRF  bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	if d.CSRF {
		api.Use(csrf.Middleware(csrf.DefaultConfig()))
	}
	login := authmw.RequireLogin(d.Authenticator)

	api.POST("/users", d.Auth.Register)
	api.GET("/users/me", d.Auth.Me, login)
	api.POST("/token/login", d.Auth.Login)
	api.POST("/token/refresh", d.Auth.Refresh)
	api.POST("/token/logout", d.Auth.LogOut)

	api.GET("/categories", d.Catalog.ListCategories)
	api.GET("/categories/:id", d.Catalog.GetCategory)
	api.GET("/menu-items", d.Catalog.ListMenuItems)
	api.GET("/menu-items/:id", d.Catalog.GetMenuItem)

	staff := []echo.MiddlewareFunc{login, authmw.RequireStaff}
	api.POST("/categories", d.Catalog.CreateCategory, staff...)
	api.PATCH("/categories/:id", d.Catalog.PatchCategory, staff...)
	api.DELETE("/categories/:id", d.Catalog.DeleteCategory, staff...)
	api.POST("/menu-items", d.Catalog.CreateMenuItem, staff...)
	api.PATCH("/menu-items/:id", d.Catalog.PatchMenuItem, staff...)
	api.DELETE("/menu-items/:id", d.Catalog.DeleteMenuItem, staff...)

	groups := api.Group("/groups/:group/users", staff...)
	groups.GET("", d.Groups.ListUsers)
	groups.POST("", d.Groups.AddUser)
	groups.DELETE("", d.Groups.RemoveUser)
	groups.DELETE("/:userId", d.Groups.RemoveUserByID)

	cart := api.Group("/cart/menu-items", login)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("", d.Cart.ClearCart)
	cart.DELETE("/:id", d.Cart.DeleteLine)

	orders := api.Group("/orders", login)
	orders.GET("", d.Orders.ListOrders)
	orders.POST("", d.Orders.PlaceOrder)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.PATCH("/:id", d.Orders.PatchOrder)
	orders.DELETE("/:id", d.Orders.DeleteOrder)
}
