package handlers

import (
	"github.com/christine-iyer/fix-the-damn-truck/internal/middleware"
	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/services"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ServiceRequestHandler struct {
	requestService services.ServiceRequestService
}

func NewServiceRequestHandler(requestService services.ServiceRequestService) *ServiceRequestHandler {
	return &ServiceRequestHandler{
		requestService: requestService,
	}
}

// CreateRequest opens a new service request for the calling customer.
func (h *ServiceRequestHandler) CreateRequest(c *gin.Context) {
	customerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.CreateRequestInput
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	detail, err := h.requestService.CreateRequest(c.Request.Context(), customerID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Service request created successfully", detail)
}

// UpdateRequest lets the assigned mechanic change status or question.
func (h *ServiceRequestHandler) UpdateRequest(c *gin.Context) {
	mechanicID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	var request services.UpdateRequestInput
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStruct(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return
	}

	detail, err := h.requestService.UpdateRequest(c.Request.Context(), requestID, mechanicID, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Service request updated successfully", detail)
}

// GetRequest returns a single populated service request.
func (h *ServiceRequestHandler) GetRequest(c *gin.Context) {
	requestID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid request ID")
		return
	}

	detail, err := h.requestService.GetByID(c.Request.Context(), requestID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Service request retrieved successfully", detail)
}

// GetByMechanic lists requests assigned to a mechanic.
func (h *ServiceRequestHandler) GetByMechanic(c *gin.Context) {
	mechanicID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid mechanic ID")
		return
	}

	details, err := h.requestService.ListByMechanic(c.Request.Context(), mechanicID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Service requests retrieved successfully", details)
}

// GetByCustomer lists a customer's requests.
func (h *ServiceRequestHandler) GetByCustomer(c *gin.Context) {
	customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer ID")
		return
	}

	details, err := h.requestService.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Service requests retrieved successfully", details)
}

// GetByStatus lists requests in a given status.
func (h *ServiceRequestHandler) GetByStatus(c *gin.Context) {
	status := models.RequestStatus(c.Param("status"))

	details, err := h.requestService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Service requests retrieved successfully", details)
}

// GetByVehicle lists a vehicle's service history.
func (h *ServiceRequestHandler) GetByVehicle(c *gin.Context) {
	vehicleID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid vehicle ID")
		return
	}

	details, err := h.requestService.ListByVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Service requests retrieved successfully", details)
}

// GetQueue lists the calling mechanic's pending requests.
func (h *ServiceRequestHandler) GetQueue(c *gin.Context) {
	mechanicID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	details, err := h.requestService.GetMechanicQueue(c.Request.Context(), mechanicID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Queue retrieved successfully", details)
}

// GetAppointments lists the calling mechanic's accepted requests.
func (h *ServiceRequestHandler) GetAppointments(c *gin.Context) {
	mechanicID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	details, err := h.requestService.GetMechanicAppointments(c.Request.Context(), mechanicID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Appointments retrieved successfully", details)
}
