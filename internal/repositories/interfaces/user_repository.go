package interfaces

import (
	"context"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserFilter narrows listing queries. Empty fields match everything.
type UserFilter struct {
	Role   models.UserRole
	Status models.UserStatus
}

type UserRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Authentication operations
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error

	// Search and listing
	List(ctx context.Context, filter UserFilter, params *utils.PaginationParams) ([]*models.User, int64, error)
	ListByRole(ctx context.Context, role models.UserRole, params *utils.PaginationParams) ([]*models.User, int64, error)

	// Role payload bookkeeping
	AddServiceRequestRef(ctx context.Context, userID primitive.ObjectID, role models.UserRole, requestID primitive.ObjectID) error
	RemoveServiceRequestRef(ctx context.Context, userID primitive.ObjectID, role models.UserRole, requestID primitive.ObjectID) error
	AddCertification(ctx context.Context, userID primitive.ObjectID, cert models.Certification) error
	IncrementJobsCompleted(ctx context.Context, mechanicID primitive.ObjectID) error

	// Statistics
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
	CountAdmins(ctx context.Context) (int64, error)
	GetStats(ctx context.Context) (*models.UserStats, error)
}
