package handlers

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListHandler serves the public-ish directory views: mechanics for customers
// picking someone to work on their truck, customers for mechanics.
type ListHandler struct {
	userService services.UserService
	authService services.AuthService
}

func NewListHandler(userService services.UserService, authService services.AuthService) *ListHandler {
	return &ListHandler{
		userService: userService,
		authService: authService,
	}
}

// GetMechanics lists mechanic accounts.
func (h *ListHandler) GetMechanics(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	mechanics, meta, err := h.userService.ListByRole(c.Request.Context(), models.UserRoleMechanic, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Mechanics retrieved successfully", mechanics, &utils.Meta{Pagination: meta})
}

// GetMechanic returns one mechanic by id.
func (h *ListHandler) GetMechanic(c *gin.Context) {
	mechanicID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid mechanic ID")
		return
	}

	mechanic, err := h.userService.GetUserByID(c.Request.Context(), mechanicID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if mechanic.Role != models.UserRoleMechanic {
		utils.NotFoundResponse(c, "mechanic")
		return
	}

	utils.SuccessResponse(c, "Mechanic retrieved successfully", mechanic)
}

// UpdateMechanic edits a mechanic profile. Mechanics may only edit their own
// record; admins may edit any mechanic.
func (h *ListHandler) UpdateMechanic(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}
	role, _ := middleware.GetRole(c)

	mechanicID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid mechanic ID")
		return
	}

	if callerID != mechanicID && role != models.UserRoleAdmin {
		utils.ForbiddenResponse(c)
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	mechanic, err := h.authService.UpdateProfile(c.Request.Context(), mechanicID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Mechanic updated successfully", mechanic)
}

// GetCustomers lists customer accounts.
func (h *ListHandler) GetCustomers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	customers, meta, err := h.userService.ListByRole(c.Request.Context(), models.UserRoleCustomer, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Customers retrieved successfully", customers, &utils.Meta{Pagination: meta})
}
