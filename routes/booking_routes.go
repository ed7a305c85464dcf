package routes

import (
	"gorent/internal/handlers"
	"gorent/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(r *gin.RouterGroup, bookingHandler *handlers.BookingHandler, wsHandler *handlers.WSHandler, jwtSecret string) {
	// Public gateway notifications, authenticated by payload signature.
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/razorpay", bookingHandler.RazorpayWebhook)
	}

	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthRequired(jwtSecret))
	{
		// The two-step checkout: create returns the payment order the
		// overlay consumes, verify settles the signed callback.
		bookings.POST("/create", bookingHandler.CreateBooking)
		bookings.POST("/verify", bookingHandler.VerifyPayment)

		bookings.GET("/user/:id", bookingHandler.GetUserBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
	}

	admin := bookings.Group("")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/all", bookingHandler.ListBookings)
		admin.GET("/stats", bookingHandler.GetStats)
		admin.PUT("/:id/cancel", bookingHandler.CancelBooking)
	}

	// Live booking events for the admin dashboard.
	ws := r.Group("/ws")
	ws.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		ws.GET("/admin", wsHandler.BookingFeed)
	}
}
