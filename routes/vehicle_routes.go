package routes

import (
	"gorent/internal/handlers"
	"gorent/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVehicleRoutes(r *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, jwtSecret string) {
	// Public catalog: what the booking page renders.
	vehicles := r.Group("/vehicles")
	{
		vehicles.GET("", vehicleHandler.ListVehicles)
		vehicles.GET("/:id", vehicleHandler.GetVehicle)
	}

	// Catalog management is admin-only.
	admin := vehicles.Group("")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/all", vehicleHandler.ListAllVehicles)
		admin.POST("", vehicleHandler.CreateVehicle)
		admin.PUT("/:id", vehicleHandler.UpdateVehicle)
		admin.DELETE("/:id", vehicleHandler.DeleteVehicle)
		admin.PATCH("/:id/availability", vehicleHandler.SetAvailability)
		admin.POST("/:id/image", vehicleHandler.UploadImage)
	}
}
