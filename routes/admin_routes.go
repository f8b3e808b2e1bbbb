package routes

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/handlers"
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes sets up admin-only user management routes.
func SetupAdminRoutes(r *gin.RouterGroup, adminHandler *handlers.AdminHandler, authService services.AuthService) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(authService), middleware.AdminRequired())
	{
		admin.GET("/users", adminHandler.GetUsers)
		admin.GET("/users/stats", adminHandler.GetUserStats)
		admin.GET("/users/:id", adminHandler.GetUser)
		admin.PATCH("/users/:id/status", adminHandler.UpdateUserStatus)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
	}
}
