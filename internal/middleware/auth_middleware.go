package middleware

import (
	"strings"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"
)

// AuthRequired validates the bearer token, rejects revoked sessions, and
// sets the principal's id and role on the request context.
func AuthRequired(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := authService.VerifySession(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondError(c, err)
			c.Abort()
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, tokenString)

		c.Next()
	}
}

// AdminRequired ensures the authenticated principal is an admin.
func AdminRequired() gin.HandlerFunc {
	return roleRequired(models.UserRoleAdmin)
}

// CustomerRequired ensures the authenticated principal is a customer.
func CustomerRequired() gin.HandlerFunc {
	return roleRequired(models.UserRoleCustomer)
}

// MechanicRequired ensures the authenticated principal is a mechanic.
func MechanicRequired() gin.HandlerFunc {
	return roleRequired(models.UserRoleMechanic)
}

func roleRequired(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextRole)
		if !exists {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		roleStr, ok := value.(string)
		if !ok || roleStr != string(role) {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID extracts the authenticated principal's id from the context.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

// GetRole extracts the authenticated principal's role from the context.
func GetRole(c *gin.Context) (models.UserRole, bool) {
	value, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := value.(string)
	return models.UserRole(role), ok
}
