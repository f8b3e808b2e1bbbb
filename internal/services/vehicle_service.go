package services

import (
	"context"
	"strings"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type VehicleService interface {
	CreateVehicle(ctx context.Context, customerID primitive.ObjectID, request *VehicleRequest) (*models.Vehicle, error)
	GetCustomerVehicles(ctx context.Context, customerID primitive.ObjectID) ([]*models.Vehicle, error)
	GetVehicleByID(ctx context.Context, customerID, vehicleID primitive.ObjectID) (*models.Vehicle, error)
	SetPrimaryVehicle(ctx context.Context, customerID, vehicleID primitive.ObjectID) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, customerID, vehicleID primitive.ObjectID) error

	// FindOrCreate reconciles a loosely described vehicle against the
	// customer's existing fleet. Used by service request creation; must be
	// called inside a transaction context when paired with other writes.
	FindOrCreate(ctx context.Context, customerID primitive.ObjectID, request *VehicleRequest) (*models.Vehicle, error)
}

type vehicleService struct {
	vehicleRepo interfaces.VehicleRepository
	requestRepo interfaces.ServiceRequestRepository
	tx          Transactor
	logger      *logger.Logger
}

func NewVehicleService(vehicleRepo interfaces.VehicleRepository, requestRepo interfaces.ServiceRequestRepository, tx Transactor, log *logger.Logger) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		requestRepo: requestRepo,
		tx:          tx,
		logger:      log,
	}
}

type VehicleRequest struct {
	Make         string `json:"make" validate:"required"`
	Model        string `json:"model" validate:"required"`
	Year         int    `json:"year" validate:"required,vehicle_year"`
	VIN          string `json:"vin,omitempty" validate:"omitempty,vin_number"`
	LicensePlate string `json:"license_plate,omitempty"`
	Color        string `json:"color,omitempty"`
	Mileage      int    `json:"mileage,omitempty" validate:"omitempty,min=0"`
}

func validateVehicleRequest(request *VehicleRequest) error {
	fields := map[string]string{}

	if strings.TrimSpace(request.Make) == "" {
		fields["make"] = "make is required"
	}
	if strings.TrimSpace(request.Model) == "" {
		fields["model"] = "model is required"
	}
	if !models.ValidYear(request.Year) {
		fields["year"] = "must be between 1900 and next year"
	}
	if request.VIN != "" && !utils.IsValidVIN(request.VIN) {
		fields["vin"] = "must be exactly 17 characters"
	}
	if request.Mileage < 0 {
		fields["mileage"] = "must not be negative"
	}

	if len(fields) > 0 {
		return utils.NewValidationError(fields)
	}
	return nil
}

// CreateVehicle adds a vehicle to the customer's fleet. The first vehicle
// becomes primary; the count and the insert share a transaction so two
// concurrent first vehicles cannot both end up primary.
func (s *vehicleService) CreateVehicle(ctx context.Context, customerID primitive.ObjectID, request *VehicleRequest) (*models.Vehicle, error) {
	if err := validateVehicleRequest(request); err != nil {
		return nil, err
	}

	result, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return s.createInFleet(sessCtx, customerID, request)
	})
	if err != nil {
		return nil, err
	}

	vehicle := result.(*models.Vehicle)
	s.logger.LogUserAction(customerID, "create_vehicle", map[string]interface{}{
		"vehicle_id": vehicle.ID.Hex(),
		"primary":    vehicle.IsPrimary,
	})

	return vehicle, nil
}

func (s *vehicleService) createInFleet(ctx context.Context, customerID primitive.ObjectID, request *VehicleRequest) (*models.Vehicle, error) {
	count, err := s.vehicleRepo.CountByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	vehicle := &models.Vehicle{
		CustomerID:   customerID,
		Make:         strings.TrimSpace(request.Make),
		Model:        strings.TrimSpace(request.Model),
		Year:         request.Year,
		VIN:          request.VIN,
		LicensePlate: request.LicensePlate,
		Color:        request.Color,
		Mileage:      request.Mileage,
		IsPrimary:    count == 0,
		Status:       models.VehicleStatusActive,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

func (s *vehicleService) GetCustomerVehicles(ctx context.Context, customerID primitive.ObjectID) ([]*models.Vehicle, error) {
	return s.vehicleRepo.GetByCustomerID(ctx, customerID)
}

func (s *vehicleService) GetVehicleByID(ctx context.Context, customerID, vehicleID primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.CustomerID != customerID {
		return nil, utils.NewForbiddenError("vehicle belongs to another customer")
	}
	return vehicle, nil
}

// SetPrimaryVehicle promotes one vehicle and demotes the rest atomically.
func (s *vehicleService) SetPrimaryVehicle(ctx context.Context, customerID, vehicleID primitive.ObjectID) (*models.Vehicle, error) {
	if _, err := s.GetVehicleByID(ctx, customerID, vehicleID); err != nil {
		return nil, err
	}

	_, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, s.vehicleRepo.SetPrimary(sessCtx, customerID, vehicleID)
	})
	if err != nil {
		return nil, err
	}

	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

// DeleteVehicle removes a vehicle and detaches it from its service requests.
// The requests survive with an empty vehicle reference. When the primary
// vehicle goes, the oldest remaining vehicle inherits the flag.
func (s *vehicleService) DeleteVehicle(ctx context.Context, customerID, vehicleID primitive.ObjectID) error {
	vehicle, err := s.GetVehicleByID(ctx, customerID, vehicleID)
	if err != nil {
		return err
	}

	_, err = s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := s.requestRepo.DetachVehicle(sessCtx, vehicleID); err != nil {
			return nil, err
		}
		if err := s.vehicleRepo.Delete(sessCtx, vehicleID); err != nil {
			return nil, err
		}

		if vehicle.IsPrimary {
			remaining, err := s.vehicleRepo.GetByCustomerID(sessCtx, customerID)
			if err != nil {
				return nil, err
			}
			if len(remaining) > 0 {
				oldest := remaining[len(remaining)-1]
				if err := s.vehicleRepo.SetPrimary(sessCtx, customerID, oldest.ID); err != nil {
					return nil, err
				}
			}
		}

		return nil, nil
	})
	if err != nil {
		return err
	}

	s.logger.LogUserAction(customerID, "delete_vehicle", map[string]interface{}{
		"vehicle_id": vehicleID.Hex(),
	})

	return nil
}

// FindOrCreate matches on case-insensitive make/model and exact year. A
// match returns the stored vehicle untouched; optional fields from the
// request are not merged in. No match creates the vehicle in the fleet.
func (s *vehicleService) FindOrCreate(ctx context.Context, customerID primitive.ObjectID, request *VehicleRequest) (*models.Vehicle, error) {
	if err := validateVehicleRequest(request); err != nil {
		return nil, err
	}

	existing, err := s.vehicleRepo.FindMatch(ctx, customerID, strings.TrimSpace(request.Make), strings.TrimSpace(request.Model), request.Year)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.createInFleet(ctx, customerID, request)
}
