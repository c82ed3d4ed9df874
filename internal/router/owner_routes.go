package router

import (
	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/handler"
	"github.com/messbari/mess-booking/internal/middleware"
)

// RegisterOwnerMessRoutes registers the listing mutations. All of them
// require a valid access token carrying the owner role; per-listing
// ownership is then enforced in the repository layer, which answers
// ErrForbidden when a different owner tries to touch the row.
func RegisterOwnerMessRoutes(e *echo.Echo, h *handler.MessGroupHandler, jwtSecret string) {
	g := e.Group("/v1/mess-groups")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("owner"))
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
