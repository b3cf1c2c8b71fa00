package routes

import (
	"github.com/gin-gonic/gin"

	"appointo/handlers"
)

// RegisterBookingRoutes registers all endpoints for the booking engine. Every
// route is tenant-scoped; cross-tenant access is rejected inside the engine.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	api := r.Group("/api/tenants/:tenantID")
	{
		api.POST("/bookings", h.RequestBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.POST("/bookings/:id/approve", h.Approve)
		api.POST("/bookings/:id/reject", h.Reject)
		api.POST("/bookings/:id/confirm", h.Confirm)
		api.POST("/bookings/:id/cancel", h.Cancel)
		api.POST("/bookings/:id/reschedule", h.Reschedule)

		api.GET("/availability", h.DayAvailability)
	}
}
