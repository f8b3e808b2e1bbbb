package handlers

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleHandler struct {
	vehicleService services.VehicleService
}

func NewVehicleHandler(vehicleService services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
	}
}

// CreateVehicle adds a vehicle to the caller's fleet.
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.VehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), customerID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle created successfully", vehicle)
}

// GetVehicles lists the caller's fleet.
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	vehicles, err := h.vehicleService.GetCustomerVehicles(c.Request.Context(), customerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicles retrieved successfully", vehicles)
}

// GetVehicle returns one of the caller's vehicles.
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	vehicle, err := h.vehicleService.GetVehicleByID(c.Request.Context(), customerID, vehicleID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle retrieved successfully", vehicle)
}

// SetPrimaryVehicle flags one vehicle as primary and unsets the rest.
func (h *VehicleHandler) SetPrimaryVehicle(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	vehicle, err := h.vehicleService.SetPrimaryVehicle(c.Request.Context(), customerID, vehicleID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Primary vehicle updated successfully", vehicle)
}

// DeleteVehicle removes a vehicle and detaches its service requests.
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), customerID, vehicleID); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle deleted successfully", nil)
}
