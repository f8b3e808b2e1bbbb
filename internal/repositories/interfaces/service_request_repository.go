package interfaces

import (
	"context"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ServiceRequestRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, request *models.ServiceRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Replace(ctx context.Context, request *models.ServiceRequest) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Listing, newest first
	GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.ServiceRequest, error)
	GetByMechanicID(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequest, error)
	GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.ServiceRequest, error)
	GetByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ServiceRequest, error)
	GetByMechanicAndStatuses(ctx context.Context, mechanicID primitive.ObjectID, statuses []models.RequestStatus) ([]*models.ServiceRequest, error)

	// Cascade helpers
	DeleteByCustomerID(ctx context.Context, customerID primitive.ObjectID) error
	DetachMechanic(ctx context.Context, mechanicID primitive.ObjectID) error
	DetachVehicle(ctx context.Context, vehicleID primitive.ObjectID) error
}
