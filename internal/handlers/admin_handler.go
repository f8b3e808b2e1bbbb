package handlers

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminHandler struct {
	userService services.UserService
}

func NewAdminHandler(userService services.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
	}
}

// GetUsers lists principals, optionally filtered by role and status.
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := interfaces.UserFilter{}
	if role := c.Query("role"); role != "" {
		if !models.ValidUserRole(role) {
			utils.BadRequestResponse(c, "Invalid role filter")
			return
		}
		filter.Role = models.UserRole(role)
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidUserStatus(status) {
			utils.BadRequestResponse(c, "Invalid status filter")
			return
		}
		filter.Status = models.UserStatus(status)
	}

	params := utils.GetPaginationParams(c)
	users, meta, err := h.userService.GetAllUsers(c.Request.Context(), filter, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Users retrieved successfully", users, &utils.Meta{Pagination: meta})
}

// GetUserStats returns the aggregate user statistics.
func (h *AdminHandler) GetUserStats(c *gin.Context) {
	stats, err := h.userService.GetUserStats(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "User statistics retrieved successfully", stats)
}

// GetUser returns a single principal by id.
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "User retrieved successfully", user)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,user_status"`
}

// UpdateUserStatus changes a principal's approval status.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	var request updateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.UpdateUserStatus(c.Request.Context(), adminID, targetID, request.Status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "User status updated successfully", user)
}

// DeleteUser removes a non-admin principal and its dependent records.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), adminID, targetID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "User deleted successfully", nil)
}
