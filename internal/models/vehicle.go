package models

import (
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleStatus string

const (
	VehicleStatusActive   VehicleStatus = "active"
	VehicleStatusInactive VehicleStatus = "inactive"
	VehicleStatusSold     VehicleStatus = "sold"
	VehicleStatusTotaled  VehicleStatus = "totaled"
)

type Vehicle struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CustomerID   primitive.ObjectID `json:"customer_id" bson:"customer_id" validate:"required"`
	Make         string             `json:"make" bson:"make" validate:"required"`
	Model        string             `json:"model" bson:"model" validate:"required"`
	Year         int                `json:"year" bson:"year" validate:"required"`
	VIN          string             `json:"vin,omitempty" bson:"vin,omitempty"`
	LicensePlate string             `json:"license_plate,omitempty" bson:"license_plate,omitempty"`
	Color        string             `json:"color,omitempty" bson:"color,omitempty"`
	Mileage      int                `json:"mileage" bson:"mileage"`
	IsPrimary    bool               `json:"is_primary" bson:"is_primary"`
	Status       VehicleStatus      `json:"status" bson:"status" default:"active"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// ValidYear bounds the model year to MinVehicleYear..next year.
func ValidYear(year int) bool {
	return year >= utils.MinVehicleYear && year <= time.Now().Year()+1
}
