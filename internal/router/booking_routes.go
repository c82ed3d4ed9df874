package router

import (
	"github.com/labstack/echo/v4"

	"github.com/messbari/mess-booking/internal/handler"
)

// RegisterBookingRoutes registers the payment-initiation flow and the
// booking history lookup. Both are public: students booking a seat do
// not hold accounts, they identify themselves by user_id in the request
// the same way the web client always has.
func RegisterBookingRoutes(e *echo.Echo, h *handler.BookingHandler) {
	g := e.Group("/v1/bookings")
	g.POST("/initiate", h.Initiate)
	g.GET("/history", h.History)
}
