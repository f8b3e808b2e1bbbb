package routes

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/handlers"
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupServiceRequestRoutes sets up the service request lifecycle routes.
func SetupServiceRequestRoutes(r *gin.RouterGroup, requestHandler *handlers.ServiceRequestHandler, authService services.AuthService) {
	requests := r.Group("/service-request")
	requests.Use(middleware.AuthRequired(authService))
	{
		requests.POST("/", middleware.CustomerRequired(), requestHandler.CreateRequest)
		requests.PUT("/:id", middleware.MechanicRequired(), requestHandler.UpdateRequest)

		requests.GET("/queue", middleware.MechanicRequired(), requestHandler.GetQueue)
		requests.GET("/appointments", middleware.MechanicRequired(), requestHandler.GetAppointments)

		requests.GET("/:id", requestHandler.GetRequest)
		requests.GET("/mechanic/:id", requestHandler.GetByMechanic)
		requests.GET("/customer/:id", requestHandler.GetByCustomer)
		requests.GET("/status/:status", requestHandler.GetByStatus)
		requests.GET("/vehicle/:id", requestHandler.GetByVehicle)
	}
}
