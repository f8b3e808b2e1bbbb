package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ServiceRequestService interface {
	CreateRequest(ctx context.Context, customerID primitive.ObjectID, request *CreateRequestInput) (*models.ServiceRequestDetail, error)
	UpdateRequest(ctx context.Context, requestID, mechanicID primitive.ObjectID, request *UpdateRequestInput) (*models.ServiceRequestDetail, error)

	GetByID(ctx context.Context, requestID primitive.ObjectID) (*models.ServiceRequestDetail, error)
	ListByMechanic(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequestDetail, error)
	ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.ServiceRequestDetail, error)
	ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ServiceRequestDetail, error)
	ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.ServiceRequestDetail, error)
	GetMechanicQueue(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequestDetail, error)
	GetMechanicAppointments(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequestDetail, error)
}

type serviceRequestService struct {
	requestRepo    interfaces.ServiceRequestRepository
	userRepo       interfaces.UserRepository
	vehicleRepo    interfaces.VehicleRepository
	vehicleService VehicleService
	tx             Transactor
	logger         *logger.Logger
}

func NewServiceRequestService(requestRepo interfaces.ServiceRequestRepository, userRepo interfaces.UserRepository, vehicleRepo interfaces.VehicleRepository, vehicleService VehicleService, tx Transactor, log *logger.Logger) ServiceRequestService {
	return &serviceRequestService{
		requestRepo:    requestRepo,
		userRepo:       userRepo,
		vehicleRepo:    vehicleRepo,
		vehicleService: vehicleService,
		tx:             tx,
		logger:         log,
	}
}

type CreateRequestInput struct {
	Description string          `json:"description" validate:"required,max=1000"`
	ServiceType string          `json:"service_type" validate:"required,service_type"`
	Priority    string          `json:"priority,omitempty" validate:"omitempty,request_priority"`
	MechanicID  string          `json:"mechanic_id,omitempty" validate:"omitempty,object_id"`
	VehicleID   string          `json:"vehicle_id,omitempty" validate:"omitempty,object_id"`
	Vehicle     *VehicleRequest `json:"vehicle,omitempty"`
}

type UpdateRequestInput struct {
	Status   string `json:"status,omitempty" validate:"omitempty,request_status"`
	Question string `json:"question,omitempty" validate:"omitempty,max=500"`
}

func (s *serviceRequestService) validateCreate(input *CreateRequestInput) error {
	fields := map[string]string{}

	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "description is required"
	}
	if len(input.Description) > utils.MaxDescriptionLength {
		fields["description"] = fmt.Sprintf("must not exceed %d characters", utils.MaxDescriptionLength)
	}
	if !models.ValidServiceType(input.ServiceType) {
		fields["service_type"] = "must be one of repair, maintenance, inspection, diagnostic, emergency"
	}
	if input.Priority != "" && !models.ValidPriority(input.Priority) {
		fields["priority"] = "must be one of low, medium, high, urgent"
	}
	if len(fields) > 0 {
		return utils.NewValidationError(fields)
	}
	return nil
}

// CreateRequest opens a ticket for the customer. Vehicle resolution, the
// request insert, and the reference-list pushes share one transaction so a
// failed vehicle write never leaves a partial request behind.
func (s *serviceRequestService) CreateRequest(ctx context.Context, customerID primitive.ObjectID, input *CreateRequestInput) (*models.ServiceRequestDetail, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	var mechanicID primitive.ObjectID
	if input.MechanicID != "" {
		id, err := primitive.ObjectIDFromHex(input.MechanicID)
		if err != nil {
			return nil, utils.NewFieldError("mechanic_id", "must be a valid id")
		}
		mechanic, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			return nil, utils.NewNotFoundError("mechanic")
		}
		if mechanic.Role != models.UserRoleMechanic {
			return nil, utils.NewFieldError("mechanic_id", "must reference a mechanic")
		}
		mechanicID = id
	}

	result, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		vehicle, err := s.resolveVehicle(sessCtx, customerID, input)
		if err != nil {
			return nil, err
		}

		priority := models.RequestPriority(input.Priority)
		if priority == "" {
			priority = models.PriorityMedium
		}

		request := &models.ServiceRequest{
			CustomerID:  customerID,
			VehicleID:   vehicle.ID,
			MechanicID:  mechanicID,
			Description: utils.SanitizeString(input.Description),
			ServiceType: models.ServiceType(input.ServiceType),
			Priority:    priority,
			Status:      models.RequestStatusPending,
		}
		if err := s.requestRepo.Create(sessCtx, request); err != nil {
			return nil, err
		}

		err = s.userRepo.AddServiceRequestRef(sessCtx, customerID, models.UserRoleCustomer, request.ID)
		if err != nil {
			return nil, err
		}
		if !mechanicID.IsZero() {
			err = s.userRepo.AddServiceRequestRef(sessCtx, mechanicID, models.UserRoleMechanic, request.ID)
			if err != nil {
				return nil, err
			}
		}

		return request, nil
	})
	if err != nil {
		return nil, err
	}

	request := result.(*models.ServiceRequest)
	s.logger.LogRequestEvent(request.ID, "created", map[string]interface{}{
		"customer_id":  customerID.Hex(),
		"service_type": request.ServiceType,
	})

	return s.populate(ctx, request)
}

func (s *serviceRequestService) resolveVehicle(ctx context.Context, customerID primitive.ObjectID, input *CreateRequestInput) (*models.Vehicle, error) {
	if input.VehicleID != "" {
		id, err := primitive.ObjectIDFromHex(input.VehicleID)
		if err != nil {
			return nil, utils.NewFieldError("vehicle_id", "must be a valid id")
		}
		vehicle, err := s.vehicleRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if vehicle.CustomerID != customerID {
			return nil, utils.NewForbiddenError("vehicle belongs to another customer")
		}
		return vehicle, nil
	}

	if input.Vehicle == nil {
		// No explicit vehicle on the ticket: fall back to the
		// customer's primary vehicle.
		vehicle, err := s.vehicleRepo.GetPrimary(ctx, customerID)
		if err != nil {
			return nil, utils.NewFieldError("vehicle", "vehicle details or vehicle_id are required when no primary vehicle is on file")
		}
		return vehicle, nil
	}

	return s.vehicleService.FindOrCreate(ctx, customerID, input.Vehicle)
}

// UpdateRequest mutates status and question on behalf of the assigned
// mechanic. Status changes must follow the transition table; each one lands
// with its audit note in a single write.
func (s *serviceRequestService) UpdateRequest(ctx context.Context, requestID, mechanicID primitive.ObjectID, input *UpdateRequestInput) (*models.ServiceRequestDetail, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.MechanicID != mechanicID {
		return nil, utils.NewForbiddenError("only the assigned mechanic may update this request")
	}

	if input.Question != "" {
		if len(input.Question) > utils.MaxQuestionLength {
			return nil, utils.NewFieldError("question", fmt.Sprintf("must not exceed %d characters", utils.MaxQuestionLength))
		}
		request.Question = utils.SanitizeString(input.Question)
	}

	completed := false
	if input.Status != "" {
		if !models.ValidRequestStatus(input.Status) {
			return nil, utils.NewFieldError("status", "unknown status")
		}
		to := models.RequestStatus(input.Status)
		if !models.CanTransition(request.Status, to) {
			return nil, utils.NewFieldError("status", fmt.Sprintf("cannot change status from %s to %s", request.Status, to))
		}
		from := request.Status
		if err := request.ApplyStatus(to, mechanicID, time.Now()); err != nil {
			return nil, utils.NewFieldError("status", err.Error())
		}
		completed = from != to && to == models.RequestStatusCompleted
	}

	if err := s.requestRepo.Replace(ctx, request); err != nil {
		return nil, err
	}

	if completed {
		if err := s.userRepo.IncrementJobsCompleted(ctx, mechanicID); err != nil {
			s.logger.WithError(err).Warn("failed to increment mechanic job counter")
		}
	}

	s.logger.LogRequestEvent(request.ID, "updated", map[string]interface{}{
		"mechanic_id": mechanicID.Hex(),
		"status":      request.Status,
	})

	return s.populate(ctx, request)
}

func (s *serviceRequestService) GetByID(ctx context.Context, requestID primitive.ObjectID) (*models.ServiceRequestDetail, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, request)
}

func (s *serviceRequestService) ListByMechanic(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequestDetail, error) {
	requests, err := s.requestRepo.GetByMechanicID(ctx, mechanicID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, requests)
}

func (s *serviceRequestService) ListByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]*models.ServiceRequestDetail, error) {
	requests, err := s.requestRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, requests)
}

func (s *serviceRequestService) ListByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ServiceRequestDetail, error) {
	if !models.ValidRequestStatus(string(status)) {
		return nil, utils.NewFieldError("status", "unknown status")
	}
	requests, err := s.requestRepo.GetByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, requests)
}

func (s *serviceRequestService) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.ServiceRequestDetail, error) {
	requests, err := s.requestRepo.GetByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, requests)
}

func (s *serviceRequestService) GetMechanicQueue(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequestDetail, error) {
	requests, err := s.requestRepo.GetByMechanicAndStatuses(ctx, mechanicID, []models.RequestStatus{models.RequestStatusPending})
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, requests)
}

func (s *serviceRequestService) GetMechanicAppointments(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequestDetail, error) {
	requests, err := s.requestRepo.GetByMechanicAndStatuses(ctx, mechanicID, []models.RequestStatus{models.RequestStatusAccepted})
	if err != nil {
		return nil, err
	}
	return s.populateAll(ctx, requests)
}

// populate loads the cross-referenced customer, mechanic, and vehicle for
// display. A dangling reference degrades to a nil field rather than failing
// the whole read.
func (s *serviceRequestService) populate(ctx context.Context, request *models.ServiceRequest) (*models.ServiceRequestDetail, error) {
	detail := &models.ServiceRequestDetail{ServiceRequest: *request}

	if customer, err := s.userRepo.GetByID(ctx, request.CustomerID); err == nil {
		detail.Customer = customer.Sanitized()
	}
	if !request.MechanicID.IsZero() {
		if mechanic, err := s.userRepo.GetByID(ctx, request.MechanicID); err == nil {
			detail.Mechanic = mechanic.Sanitized()
		}
	}
	if !request.VehicleID.IsZero() {
		if vehicle, err := s.vehicleRepo.GetByID(ctx, request.VehicleID); err == nil {
			detail.Vehicle = vehicle
		}
	}

	return detail, nil
}

func (s *serviceRequestService) populateAll(ctx context.Context, requests []*models.ServiceRequest) ([]*models.ServiceRequestDetail, error) {
	details := make([]*models.ServiceRequestDetail, 0, len(requests))
	for _, request := range requests {
		detail, err := s.populate(ctx, request)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}
