package services

import (
	"context"
	"fmt"
	"time"

	"github.com/christine-iyer/fix-the-damn-truck/internal/config"
	"github.com/christine-iyer/fix-the-damn-truck/internal/models"
	"github.com/christine-iyer/fix-the-damn-truck/internal/repositories/interfaces"
	"github.com/christine-iyer/fix-the-damn-truck/internal/utils"
	"github.com/christine-iyer/fix-the-damn-truck/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TokenRevoker is the slice of the redis cache the auth flow needs for the
// logout revocation list.
type TokenRevoker interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Transactor runs a closure inside a store transaction. Satisfied by
// database.MongoDB.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(sessCtx mongo.SessionContext) (interface{}, error)) (interface{}, error)
}

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, token string) error
	VerifySession(ctx context.Context, token string) (*utils.JWTClaims, error)

	GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error
}

type authService struct {
	userRepo interfaces.UserRepository
	revoker  TokenRevoker
	tx       Transactor
	security *config.SecurityConfig
	logger   *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, revoker TokenRevoker, tx Transactor, security *config.SecurityConfig, log *logger.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		revoker:  revoker,
		tx:       tx,
		security: security,
		logger:   log,
	}
}

type RegisterRequest struct {
	Username string                  `json:"username" validate:"required,username"`
	Email    string                  `json:"email" validate:"required,email"`
	Password string                  `json:"password" validate:"required,strong_password"`
	Role     string                  `json:"role" validate:"required,user_role"`
	Admin    *AdminRegisterData      `json:"admin,omitempty"`
	Customer *models.CustomerProfile `json:"customer,omitempty"`
	Mechanic *MechanicRegisterData   `json:"mechanic,omitempty"`
}

type AdminRegisterData struct {
	Departments []string `json:"departments"`
}

type MechanicRegisterData struct {
	PhoneNumber     string                 `json:"phone_number"`
	Specializations []string               `json:"specializations"`
	Experience      int                    `json:"experience"`
	Pricing         models.MechanicPricing `json:"pricing"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UpdateProfileRequest struct {
	Username string                  `json:"username,omitempty"`
	Email    string                  `json:"email,omitempty"`
	Customer *models.CustomerProfile `json:"customer,omitempty"`
	Mechanic *MechanicRegisterData   `json:"mechanic,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if err := s.validateRegistration(request); err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(request.Email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, utils.NewDuplicateError(utils.ErrEmailExists)
	}
	username := utils.SanitizeString(request.Username)
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, utils.NewDuplicateError(utils.ErrUsernameExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), s.security.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     models.UserRole(request.Role),
		Status:   models.UserStatusPending,
	}
	s.attachRolePayload(user, request)

	if user.Role == models.UserRoleAdmin && s.security.AllowFirstAdmin {
		// Bootstrap rule: the flag admits exactly one admin, and only
		// while none exist. The count and the insert share a
		// transaction so two concurrent bootstraps cannot both win.
		_, err = s.tx.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			count, err := s.userRepo.CountAdmins(sessCtx)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, utils.NewForbiddenError("an admin account already exists")
			}
			user.Status = models.UserStatusApproved
			user.Admin.ClearanceLevel = models.ClearanceDirector
			return nil, s.userRepo.Create(sessCtx, user)
		})
	} else {
		err = s.userRepo.Create(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateSessionToken(user.ID, string(user.Role), s.security.JWTSecret, s.security.JWTSessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.LogUserAction(user.ID, "register", map[string]interface{}{
		"role":   user.Role,
		"status": user.Status,
	})

	return &AuthResponse{Token: token, User: user.Sanitized()}, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil {
		return nil, utils.NewAuthError(utils.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, utils.NewAuthError(utils.ErrInvalidCredentials)
	}

	switch user.Status {
	case models.UserStatusPending:
		return nil, utils.NewForbiddenError(utils.ErrAccountPending)
	case models.UserStatusBanned:
		return nil, utils.NewForbiddenError(utils.ErrAccountBanned)
	}

	token, err := utils.GenerateSessionToken(user.ID, string(user.Role), s.security.JWTSecret, s.security.JWTSessionTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if user.Role == models.UserRoleAdmin {
		if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
			s.logger.WithError(err).Warn("failed to record admin login time")
		}
	}

	s.logger.LogUserAction(user.ID, "login", map[string]interface{}{"role": user.Role})

	return &AuthResponse{Token: token, User: user.Sanitized()}, nil
}

// Logout places the token on the revocation list until its natural expiry.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ValidateToken(token, s.security.JWTSecret)
	if err != nil {
		return utils.NewAuthError(utils.ErrInvalidToken)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	key := utils.CacheRevokedTokenPrefix + token
	if err := s.revoker.Set(ctx, key, true, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	return nil
}

func (s *authService) VerifySession(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateToken(token, s.security.JWTSecret)
	if err != nil {
		return nil, utils.NewAuthError(utils.ErrInvalidToken)
	}

	revoked, err := s.revoker.Exists(ctx, utils.CacheRevokedTokenPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, utils.NewAuthError(utils.ErrTokenRevoked)
	}

	return claims, nil
}

func (s *authService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile mutates the caller's own record. Role, status, clearance,
// and the credential hash are not reachable from here.
func (s *authService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, request *UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if request.Username != "" && request.Username != user.Username {
		if !utils.IsValidUsername(request.Username) {
			return nil, utils.NewFieldError("username", "must be alphanumeric, 3-30 characters")
		}
		if _, err := s.userRepo.GetByUsername(ctx, request.Username); err == nil {
			return nil, utils.NewDuplicateError(utils.ErrUsernameExists)
		}
		updates["username"] = utils.SanitizeString(request.Username)
	}

	if request.Email != "" {
		email := utils.NormalizeEmail(request.Email)
		if email != user.Email {
			if !utils.IsValidEmail(email) {
				return nil, utils.NewFieldError("email", "must be a valid email address")
			}
			if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
				return nil, utils.NewDuplicateError(utils.ErrEmailExists)
			}
			updates["email"] = email
		}
	}

	if user.Role == models.UserRoleCustomer && request.Customer != nil {
		if request.Customer.PhoneNumber != "" {
			updates["customer.phone_number"] = request.Customer.PhoneNumber
		}
		if request.Customer.Address != (models.Address{}) {
			updates["customer.address"] = request.Customer.Address
		}
	}

	if user.Role == models.UserRoleMechanic && request.Mechanic != nil {
		if request.Mechanic.PhoneNumber != "" {
			updates["mechanic.phone_number"] = request.Mechanic.PhoneNumber
		}
		if len(request.Mechanic.Specializations) > 0 {
			updates["mechanic.specializations"] = request.Mechanic.Specializations
		}
		if request.Mechanic.Experience > 0 {
			updates["mechanic.experience"] = request.Mechanic.Experience
		}
		if request.Mechanic.Pricing != (models.MechanicPricing{}) {
			updates["mechanic.pricing"] = request.Mechanic.Pricing
		}
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *authService) ChangePassword(ctx context.Context, userID primitive.ObjectID, request *ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.CurrentPassword)); err != nil {
		return utils.NewAuthError("current password is incorrect")
	}

	if !utils.ValidatePasswordStrength(request.NewPassword) {
		return utils.NewFieldError("new_password", "must be 8-25 characters with lowercase, uppercase, digit, and symbol")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.NewPassword), s.security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"password": string(hashed)}); err != nil {
		return err
	}

	s.logger.LogUserAction(userID, "change_password", nil)
	return nil
}

func (s *authService) validateRegistration(request *RegisterRequest) error {
	fields := map[string]string{}

	if !utils.IsValidUsername(request.Username) {
		fields["username"] = "must be alphanumeric, 3-30 characters"
	}
	if !utils.IsValidEmail(utils.NormalizeEmail(request.Email)) {
		fields["email"] = "must be a valid email address"
	}
	if !utils.ValidatePasswordStrength(request.Password) {
		fields["password"] = "must be 8-25 characters with lowercase, uppercase, digit, and symbol"
	}
	if !models.ValidUserRole(request.Role) {
		fields["role"] = "must be one of admin, customer, mechanic"
	}

	if len(fields) > 0 {
		return utils.NewValidationError(fields)
	}
	return nil
}

func (s *authService) attachRolePayload(user *models.User, request *RegisterRequest) {
	switch user.Role {
	case models.UserRoleAdmin:
		profile := models.NewAdminProfile()
		if request.Admin != nil && len(request.Admin.Departments) > 0 {
			profile.Departments = request.Admin.Departments
		}
		user.Admin = profile
	case models.UserRoleCustomer:
		profile := models.NewCustomerProfile()
		if request.Customer != nil {
			profile.PhoneNumber = request.Customer.PhoneNumber
			profile.Address = request.Customer.Address
		}
		user.Customer = profile
	case models.UserRoleMechanic:
		profile := models.NewMechanicProfile()
		if request.Mechanic != nil {
			profile.PhoneNumber = request.Mechanic.PhoneNumber
			if len(request.Mechanic.Specializations) > 0 {
				profile.Specializations = request.Mechanic.Specializations
			}
			profile.Experience = request.Mechanic.Experience
			profile.Pricing = request.Mechanic.Pricing
		}
		user.Mechanic = profile
	}
}
