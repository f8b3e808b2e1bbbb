package interfaces

import (
	"context"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Customer association
	GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Vehicle, error)
	CountByCustomerID(ctx context.Context, customerID primitive.ObjectID) (int64, error)
	DeleteByCustomerID(ctx context.Context, customerID primitive.ObjectID) error

	// Reconciliation. Matching is case-insensitive on make and model,
	// exact on year.
	FindMatch(ctx context.Context, customerID primitive.ObjectID, make, model string, year int) (*models.Vehicle, error)

	// Primary flag. SetPrimary clears the flag on every other vehicle of
	// the same customer in the same call.
	SetPrimary(ctx context.Context, customerID, vehicleID primitive.ObjectID) error
	GetPrimary(ctx context.Context, customerID primitive.ObjectID) (*models.Vehicle, error)
}
