package services

import (
	"context"
	"fmt"

	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserService interface {
	GetAllUsers(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, *utils.PaginationMeta, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole, params *utils.PaginationParams) ([]*models.User, *utils.PaginationMeta, error)

	UpdateUserStatus(ctx context.Context, adminID, targetID primitive.ObjectID, status string) (*models.User, error)
	DeleteUser(ctx context.Context, adminID, targetID primitive.ObjectID) error
	GetUserStats(ctx context.Context) (*models.UserStats, error)

	AddCertification(ctx context.Context, mechanicID primitive.ObjectID, cert models.Certification) (*models.User, error)
}

type userService struct {
	userRepo    interfaces.UserRepository
	vehicleRepo interfaces.VehicleRepository
	requestRepo interfaces.ServiceRequestRepository
	tx          Transactor
	logger      *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, vehicleRepo interfaces.VehicleRepository, requestRepo interfaces.ServiceRequestRepository, tx Transactor, log *logger.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		vehicleRepo: vehicleRepo,
		requestRepo: requestRepo,
		tx:          tx,
		logger:      log,
	}
}

func (s *userService) GetAllUsers(ctx context.Context, filter interfaces.UserFilter, params *utils.PaginationParams) ([]*models.User, *utils.PaginationMeta, error) {
	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, err
	}

	return sanitizeAll(users), utils.CreatePaginationMeta(params, total), nil
}

func (s *userService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (s *userService) ListByRole(ctx context.Context, role models.UserRole, params *utils.PaginationParams) ([]*models.User, *utils.PaginationMeta, error) {
	users, total, err := s.userRepo.ListByRole(ctx, role, params)
	if err != nil {
		return nil, nil, err
	}

	return sanitizeAll(users), utils.CreatePaginationMeta(params, total), nil
}

// authorizeAdminAction gates one admin acting on another principal. The
// actor must hold the required permission, admins never act on themselves,
// and an admin target must sit strictly below the actor's clearance level.
// Non-admin targets need no clearance check.
func authorizeAdminAction(admin, target *models.User, action string, required models.AdminPermission) error {
	if admin.Admin == nil || !admin.Admin.HasPermission(required) {
		return utils.NewForbiddenError(fmt.Sprintf("missing %s permission", required))
	}
	if admin.ID == target.ID {
		return utils.NewSelfActionError(action)
	}
	if target.Role == models.UserRoleAdmin {
		if admin.Clearance().Rank() <= target.Clearance().Rank() {
			return utils.NewInsufficientClearanceError(action)
		}
	}
	return nil
}

// UpdateUserStatus changes a principal's approval status on behalf of an
// admin. The authorization lookups and the write run in one transaction so a
// concurrent clearance change cannot slip between check and act.
func (s *userService) UpdateUserStatus(ctx context.Context, adminID, targetID primitive.ObjectID, status string) (*models.User, error) {
	if !models.ValidUserStatus(status) {
		return nil, utils.NewFieldError("status", "must be one of pending, approved, banned")
	}

	result, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		admin, err := s.userRepo.GetByID(sessCtx, adminID)
		if err != nil {
			return nil, err
		}
		target, err := s.userRepo.GetByID(sessCtx, targetID)
		if err != nil {
			return nil, err
		}

		if err := authorizeAdminAction(admin, target, "modify", models.PermissionWrite); err != nil {
			return nil, err
		}

		updates := map[string]interface{}{"status": models.UserStatus(status)}
		if err := s.userRepo.Update(sessCtx, targetID, updates); err != nil {
			return nil, err
		}

		target.Status = models.UserStatus(status)
		return target, nil
	})
	if err != nil {
		return nil, err
	}

	updated := result.(*models.User)
	s.logger.LogAdminAction(adminID, targetID, "update_status", map[string]interface{}{
		"status": status,
	})

	return updated.Sanitized(), nil
}

// DeleteUser removes a non-admin principal and cascades: a customer's
// vehicles and service requests go with them (mechanics lose the dangling
// refs), a mechanic's open requests return to the pending pool. Admin
// accounts cannot be deleted.
func (s *userService) DeleteUser(ctx context.Context, adminID, targetID primitive.ObjectID) error {
	_, err := s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		admin, err := s.userRepo.GetByID(sessCtx, adminID)
		if err != nil {
			return nil, err
		}
		target, err := s.userRepo.GetByID(sessCtx, targetID)
		if err != nil {
			return nil, err
		}

		if err := authorizeAdminAction(admin, target, "delete", models.PermissionDelete); err != nil {
			return nil, err
		}
		if target.Role == models.UserRoleAdmin {
			return nil, utils.NewForbiddenError("admin accounts cannot be deleted")
		}

		switch target.Role {
		case models.UserRoleCustomer:
			if err := s.cascadeCustomerDelete(sessCtx, target); err != nil {
				return nil, err
			}
		case models.UserRoleMechanic:
			if err := s.requestRepo.DetachMechanic(sessCtx, targetID); err != nil {
				return nil, err
			}
		}

		return nil, s.userRepo.Delete(sessCtx, targetID)
	})
	if err != nil {
		return err
	}

	s.logger.LogAdminAction(adminID, targetID, "delete_user", nil)
	return nil
}

func (s *userService) cascadeCustomerDelete(ctx context.Context, customer *models.User) error {
	requests, err := s.requestRepo.GetByCustomerID(ctx, customer.ID)
	if err != nil {
		return err
	}
	for _, request := range requests {
		if request.MechanicID.IsZero() {
			continue
		}
		err := s.userRepo.RemoveServiceRequestRef(ctx, request.MechanicID, models.UserRoleMechanic, request.ID)
		if err != nil {
			return err
		}
	}

	if err := s.requestRepo.DeleteByCustomerID(ctx, customer.ID); err != nil {
		return err
	}
	return s.vehicleRepo.DeleteByCustomerID(ctx, customer.ID)
}

func (s *userService) GetUserStats(ctx context.Context) (*models.UserStats, error) {
	return s.userRepo.GetStats(ctx)
}

func (s *userService) AddCertification(ctx context.Context, mechanicID primitive.ObjectID, cert models.Certification) (*models.User, error) {
	if cert.Name == "" {
		return nil, utils.NewFieldError("name", "certification name is required")
	}

	if err := s.userRepo.AddCertification(ctx, mechanicID, cert); err != nil {
		return nil, err
	}

	s.logger.LogUserAction(mechanicID, "add_certification", map[string]interface{}{
		"name": cert.Name,
	})

	return s.GetUserByID(ctx, mechanicID)
}

func sanitizeAll(users []*models.User) []*models.User {
	sanitized := make([]*models.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}
	return sanitized
}
