package routes

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/handlers"
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up registration, login, and profile routes.
func SetupAuthRoutes(r *gin.RouterGroup, authHandler *handlers.AuthHandler, authService services.AuthService) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.AuthRequired(authService))
	{
		protected.POST("/logout", authHandler.Logout)
		protected.GET("/profile", authHandler.GetProfile)
		protected.PUT("/profile", authHandler.UpdateProfile)
		protected.POST("/change-password", authHandler.ChangePassword)
	}
}
