package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type vehicleRepository struct {
	collection *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) interfaces.VehicleRepository {
	return &vehicleRepository{
		collection: db.Collection("vehicles"),
	}
}

// Basic CRUD operations
func (r *vehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	vehicle.ID = primitive.NewObjectID()
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = time.Now()

	// Normalize license plate and VIN to uppercase
	vehicle.LicensePlate = strings.ToUpper(vehicle.LicensePlate)
	vehicle.VIN = strings.ToUpper(vehicle.VIN)

	_, err := r.collection.InsertOne(ctx, vehicle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError("vehicle with this VIN already exists")
		}
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("vehicle")
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &vehicle, nil
}

func (r *vehicleRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if licensePlate, exists := updates["license_plate"]; exists {
		if plateStr, ok := licensePlate.(string); ok {
			updates["license_plate"] = strings.ToUpper(plateStr)
		}
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("vehicle")
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("vehicle")
	}

	return nil
}

// Customer association
func (r *vehicleRepository) GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Vehicle, error) {
	filter := bson.M{"customer_id": customerID}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicles by customer ID: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []*models.Vehicle
	for cursor.Next(ctx) {
		var vehicle models.Vehicle
		if err := cursor.Decode(&vehicle); err != nil {
			return nil, fmt.Errorf("failed to decode vehicle: %w", err)
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, nil
}

func (r *vehicleRepository) CountByCustomerID(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	return count, nil
}

func (r *vehicleRepository) DeleteByCustomerID(ctx context.Context, customerID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return fmt.Errorf("failed to delete vehicles by customer ID: %w", err)
	}

	return nil
}

// FindMatch looks up an existing vehicle for reconciliation. Make and model
// match case-insensitively, year exactly. Returns nil without error when no
// vehicle matches.
func (r *vehicleRepository) FindMatch(ctx context.Context, customerID primitive.ObjectID, make, model string, year int) (*models.Vehicle, error) {
	filter := bson.M{
		"customer_id": customerID,
		"make":        caseInsensitiveExact(make),
		"model":       caseInsensitiveExact(model),
		"year":        year,
	}

	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, filter).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to match vehicle: %w", err)
	}

	return &vehicle, nil
}

func caseInsensitiveExact(value string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// SetPrimary promotes one vehicle and demotes the rest of the customer's
// fleet. Run inside a transaction when the promotion must be atomic with
// other writes.
func (r *vehicleRepository) SetPrimary(ctx context.Context, customerID, vehicleID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"customer_id": customerID, "_id": bson.M{"$ne": vehicleID}},
		bson.M{"$set": bson.M{"is_primary": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to demote vehicles: %w", err)
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": vehicleID, "customer_id": customerID},
		bson.M{"$set": bson.M{"is_primary": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to promote vehicle: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("vehicle")
	}

	return nil
}

func (r *vehicleRepository) GetPrimary(ctx context.Context, customerID primitive.ObjectID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.collection.FindOne(ctx, bson.M{"customer_id": customerID, "is_primary": true}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("primary vehicle")
		}
		return nil, fmt.Errorf("failed to get primary vehicle: %w", err)
	}

	return &vehicle, nil
}
