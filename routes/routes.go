package routes

import (
	"time"

	"fieldserve/handlers"
	"fieldserve/middleware"
	"fieldserve/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, bookingHandler *handlers.BookingHandler, technicianHandler *handlers.TechnicianHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)

	bookings := r.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware())
	{
		bookings.POST("", middleware.RequireRoles(models.RoleCustomer), bookingHandler.CreateBooking)
		bookings.GET("", bookingHandler.ListBookings)
		bookings.GET("/:id", bookingHandler.GetBooking)
		bookings.PUT("/:id/status", bookingHandler.UpdateBookingStatus)
		bookings.PUT("/:id/assign-technician", middleware.RequireRoles(models.RoleAdmin), bookingHandler.AssignTechnician)
		bookings.DELETE("/:id", bookingHandler.CancelBooking)
	}

	technicians := r.Group("/technicians")
	{
		// Discovery is public and read-only.
		technicians.GET("/nearby", technicianHandler.Nearby)

		me := technicians.Group("/me")
		me.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleTechnician))
		{
			me.PUT("/location", technicianHandler.UpdateLocation)
			me.PUT("/availability", technicianHandler.SetAvailability)
		}
	}
}
