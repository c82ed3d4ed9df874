package router

import (
	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/handler"
)

// RegisterPublicMessRoutes registers the browse endpoints anyone can
// call without a token. The optional middleware (typically the Redis
// response cache) applies only to this group, so authenticated routes
// never serve cached bodies.
//
// Rating also lives here: visitors rate listings without an account,
// and the submitted value simply replaces the stored one.
func RegisterPublicMessRoutes(e *echo.Echo, h *handler.MessGroupHandler, mws ...echo.MiddlewareFunc) {
	g := e.Group("/v1/mess-groups", mws...)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/rating", h.Rate)
}
