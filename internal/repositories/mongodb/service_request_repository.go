package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type serviceRequestRepository struct {
	collection *mongo.Collection
}

func NewServiceRequestRepository(db *mongo.Database) interfaces.ServiceRequestRepository {
	return &serviceRequestRepository{
		collection: db.Collection("service_requests"),
	}
}

// Basic CRUD operations
func (r *serviceRequestRepository) Create(ctx context.Context, request *models.ServiceRequest) error {
	request.ID = primitive.NewObjectID()
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	if request.Status == "" {
		request.Status = models.RequestStatusPending
	}
	if request.Priority == "" {
		request.Priority = models.PriorityMedium
	}
	if request.Notes == nil {
		request.Notes = []models.RequestNote{}
	}

	_, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return fmt.Errorf("failed to create service request: %w", err)
	}

	return nil
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ServiceRequest, error) {
	var request models.ServiceRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("service request")
		}
		return nil, fmt.Errorf("failed to get service request: %w", err)
	}

	return &request, nil
}

func (r *serviceRequestRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update service request: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("service request")
	}

	return nil
}

// Replace persists the full document. Used after in-memory status
// transitions so the audit notes land in the same write as the new status.
func (r *serviceRequestRepository) Replace(ctx context.Context, request *models.ServiceRequest) error {
	request.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return fmt.Errorf("failed to replace service request: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("service request")
	}

	return nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete service request: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("service request")
	}

	return nil
}

// Listing, newest first
func (r *serviceRequestRepository) GetByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.ServiceRequest, error) {
	return r.findRequests(ctx, bson.M{"customer_id": customerID})
}

func (r *serviceRequestRepository) GetByMechanicID(ctx context.Context, mechanicID primitive.ObjectID) ([]*models.ServiceRequest, error) {
	return r.findRequests(ctx, bson.M{"mechanic_id": mechanicID})
}

func (r *serviceRequestRepository) GetByVehicleID(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.ServiceRequest, error) {
	return r.findRequests(ctx, bson.M{"vehicle_id": vehicleID})
}

func (r *serviceRequestRepository) GetByStatus(ctx context.Context, status models.RequestStatus) ([]*models.ServiceRequest, error) {
	return r.findRequests(ctx, bson.M{"status": status})
}

func (r *serviceRequestRepository) GetByMechanicAndStatuses(ctx context.Context, mechanicID primitive.ObjectID, statuses []models.RequestStatus) ([]*models.ServiceRequest, error) {
	return r.findRequests(ctx, bson.M{
		"mechanic_id": mechanicID,
		"status":      bson.M{"$in": statuses},
	})
}

func (r *serviceRequestRepository) findRequests(ctx context.Context, filter bson.M) ([]*models.ServiceRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find service requests: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []*models.ServiceRequest
	for cursor.Next(ctx) {
		var request models.ServiceRequest
		if err := cursor.Decode(&request); err != nil {
			return nil, fmt.Errorf("failed to decode service request: %w", err)
		}
		requests = append(requests, &request)
	}

	return requests, nil
}

// Cascade helpers
func (r *serviceRequestRepository) DeleteByCustomerID(ctx context.Context, customerID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return fmt.Errorf("failed to delete service requests by customer ID: %w", err)
	}

	return nil
}

// DetachMechanic unassigns a deleted mechanic from all their requests and
// puts the non-terminal ones back in the pending pool.
func (r *serviceRequestRepository) DetachMechanic(ctx context.Context, mechanicID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{
			"mechanic_id": mechanicID,
			"status": bson.M{"$in": []models.RequestStatus{
				models.RequestStatusAccepted,
				models.RequestStatusQuestion,
				models.RequestStatusInProgress,
			}},
		},
		bson.M{
			"$unset": bson.M{"mechanic_id": ""},
			"$set":   bson.M{"status": models.RequestStatusPending, "updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to detach mechanic from service requests: %w", err)
	}

	_, err = r.collection.UpdateMany(
		ctx,
		bson.M{"mechanic_id": mechanicID},
		bson.M{
			"$unset": bson.M{"mechanic_id": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to detach mechanic from completed service requests: %w", err)
	}

	return nil
}

func (r *serviceRequestRepository) DetachVehicle(ctx context.Context, vehicleID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"vehicle_id": vehicleID},
		bson.M{
			"$unset": bson.M{"vehicle_id": ""},
			"$set":   bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to detach vehicle from service requests: %w", err)
	}

	return nil
}
