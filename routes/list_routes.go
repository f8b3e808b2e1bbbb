package routes

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/handlers"
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupListRoutes sets up the directory views and certification upload.
func SetupListRoutes(r *gin.RouterGroup, listHandler *handlers.ListHandler, certHandler *handlers.CertificationHandler, authService services.AuthService) {
	list := r.Group("/list")
	list.Use(middleware.AuthRequired(authService))
	{
		list.GET("/mechanics", listHandler.GetMechanics)
		list.GET("/mechanics/:id", listHandler.GetMechanic)
		list.PUT("/mechanics/:id", listHandler.UpdateMechanic)
		list.GET("/customers", listHandler.GetCustomers)
	}

	mechanics := r.Group("/mechanics")
	mechanics.Use(middleware.AuthRequired(authService), middleware.MechanicRequired())
	{
		mechanics.POST("/certifications", certHandler.UploadCertification)
	}
}
