package routes

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/handlers"
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupVehicleRoutes sets up the customer fleet routes.
func SetupVehicleRoutes(r *gin.RouterGroup, vehicleHandler *handlers.VehicleHandler, authService services.AuthService) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.AuthRequired(authService), middleware.CustomerRequired())
	{
		vehicles.POST("/", vehicleHandler.CreateVehicle)
		vehicles.GET("/", vehicleHandler.GetVehicles)
		vehicles.GET("/:id", vehicleHandler.GetVehicle)
		vehicles.PUT("/:id/primary", vehicleHandler.SetPrimaryVehicle)
		vehicles.DELETE("/:id", vehicleHandler.DeleteVehicle)
	}
}
