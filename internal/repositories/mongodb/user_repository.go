package mongodb

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection("users"),
	}
}

// duplicateUserMessage maps a duplicate-key error to the unique index that
// fired. Users carry two unique indexes, email and username.
func duplicateUserMessage(err error) string {
	if strings.Contains(err.Error(), "username") {
		return utils.ErrUsernameExists
	}
	return utils.ErrEmailExists
}

// Basic CRUD operations
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError(duplicateUserMessage(err))
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewDuplicateError(duplicateUserMessage(err))
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("user")
	}

	return nil
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("user")
	}

	return nil
}

// Authentication operations
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("user")
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "role": models.UserRoleAdmin},
		bson.M{"$set": bson.M{
			"admin.last_login_at": time.Now(),
			"updated_at":          time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// Search and listing
func (r *userRepository) List(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, 0, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, &user)
	}

	return users, total, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.UserRole, params *utils.PaginationParams) ([]*models.User, int64, error) {
	return r.List(ctx, interfaces.UserFilter{Role: role}, params)
}

// Role payload bookkeeping
func (r *userRepository) AddServiceRequestRef(ctx context.Context, userID primitive.ObjectID, role models.UserRole, requestID primitive.ObjectID) error {
	field, err := requestRefField(role)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "role": role},
		bson.M{
			"$push": bson.M{field: requestID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add service request ref: %w", err)
	}

	return nil
}

func (r *userRepository) RemoveServiceRequestRef(ctx context.Context, userID primitive.ObjectID, role models.UserRole, requestID primitive.ObjectID) error {
	field, err := requestRefField(role)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "role": role},
		bson.M{
			"$pull": bson.M{field: requestID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to remove service request ref: %w", err)
	}

	return nil
}

func requestRefField(role models.UserRole) (string, error) {
	switch role {
	case models.UserRoleCustomer:
		return "customer.service_requests", nil
	case models.UserRoleMechanic:
		return "mechanic.service_requests", nil
	default:
		return "", fmt.Errorf("role %s carries no service request refs", role)
	}
}

func (r *userRepository) AddCertification(ctx context.Context, userID primitive.ObjectID, cert models.Certification) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "role": models.UserRoleMechanic},
		bson.M{
			"$push": bson.M{"mechanic.certifications": cert},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add certification: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("mechanic")
	}

	return nil
}

func (r *userRepository) IncrementJobsCompleted(ctx context.Context, mechanicID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": mechanicID, "role": models.UserRoleMechanic},
		bson.M{
			"$inc": bson.M{"mechanic.performance.jobs_completed": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to increment jobs completed: %w", err)
	}

	return nil
}

// Statistics
func (r *userRepository) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("failed to count users by role: %w", err)
	}

	return count, nil
}

func (r *userRepository) CountAdmins(ctx context.Context) (int64, error) {
	return r.CountByRole(ctx, models.UserRoleAdmin)
}

func (r *userRepository) GetStats(ctx context.Context) (*models.UserStats, error) {
	cutoff := time.Now().AddDate(0, 0, -30)

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"roles": mongo.Pipeline{
				{{Key: "$group", Value: bson.M{
					"_id":   "$role",
					"count": bson.M{"$sum": 1},
				}}},
			},
			"statuses": mongo.Pipeline{
				{{Key: "$group", Value: bson.M{
					"_id":   "$status",
					"count": bson.M{"$sum": 1},
				}}},
			},
			"recent": mongo.Pipeline{
				{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": cutoff}}}},
				{{Key: "$count", Value: "count"}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Roles []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"roles"`
		Statuses []struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		} `bson:"statuses"`
		Recent []struct {
			Count int64 `bson:"count"`
		} `bson:"recent"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode user stats: %w", err)
	}

	stats := &models.UserStats{}
	if len(results) == 0 {
		return stats, nil
	}

	facets := results[0]
	for _, role := range facets.Roles {
		stats.TotalUsers += role.Count
		switch models.UserRole(role.ID) {
		case models.UserRoleCustomer:
			stats.RoleBreakdown.Customers = role.Count
		case models.UserRoleMechanic:
			stats.RoleBreakdown.Mechanics = role.Count
		case models.UserRoleAdmin:
			stats.RoleBreakdown.Admins = role.Count
		}
	}
	for _, status := range facets.Statuses {
		switch models.UserStatus(status.ID) {
		case models.UserStatusApproved:
			stats.StatusBreakdown.Approved = status.Count
		case models.UserStatusPending:
			stats.StatusBreakdown.Pending = status.Count
		case models.UserStatusBanned:
			stats.StatusBreakdown.Banned = status.Count
		}
	}
	if len(facets.Recent) > 0 {
		stats.RecentActivity.SignupsLast30Days = facets.Recent[0].Count
	}

	if stats.TotalUsers > 0 {
		rate := float64(stats.StatusBreakdown.Approved) / float64(stats.TotalUsers) * 100
		stats.ApprovalRate = math.Round(rate*100) / 100
	}

	return stats, nil
}
