package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string
type UserStatus string
type ClearanceLevel string
type AdminPermission string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
	UserRoleMechanic UserRole = "mechanic"

	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusBanned   UserStatus = "banned"

	ClearanceBasic      ClearanceLevel = "basic"
	ClearanceSenior     ClearanceLevel = "senior"
	ClearanceSupervisor ClearanceLevel = "supervisor"
	ClearanceDirector   ClearanceLevel = "director"

	PermissionRead         AdminPermission = "read"
	PermissionWrite        AdminPermission = "write"
	PermissionDelete       AdminPermission = "delete"
	PermissionManageUsers  AdminPermission = "manage_users"
	PermissionManageSystem AdminPermission = "manage_system"
	PermissionAnalytics    AdminPermission = "view_analytics"
)

// Rank places clearance levels on a total order. Unknown levels rank below
// basic so a malformed record can never outrank a real one.
func (c ClearanceLevel) Rank() int {
	switch c {
	case ClearanceDirector:
		return 4
	case ClearanceSupervisor:
		return 3
	case ClearanceSenior:
		return 2
	case ClearanceBasic:
		return 1
	default:
		return 0
	}
}

func ValidUserRole(role string) bool {
	switch UserRole(role) {
	case UserRoleAdmin, UserRoleCustomer, UserRoleMechanic:
		return true
	}
	return false
}

func ValidUserStatus(status string) bool {
	switch UserStatus(status) {
	case UserStatusPending, UserStatusApproved, UserStatusBanned:
		return true
	}
	return false
}

// User is the principal record. All three roles share one collection keyed
// by the Role discriminator; exactly one of the role payloads is non-nil,
// matching the role.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username  string             `json:"username" bson:"username" validate:"required,min=3,max=30"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Password  string             `json:"-" bson:"password"`
	Role      UserRole           `json:"role" bson:"role" validate:"required"`
	Status    UserStatus         `json:"status" bson:"status" default:"pending"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`

	Admin    *AdminProfile    `json:"admin,omitempty" bson:"admin,omitempty"`
	Customer *CustomerProfile `json:"customer,omitempty" bson:"customer,omitempty"`
	Mechanic *MechanicProfile `json:"mechanic,omitempty" bson:"mechanic,omitempty"`
}

// Sanitized returns a copy safe for serialization. The credential hash is
// already hidden from JSON but callers hand User records to templates and
// logs too, so strip it at the source.
func (u *User) Sanitized() *User {
	clean := *u
	clean.Password = ""
	return &clean
}

// Clearance resolves the admin clearance level, defaulting to basic for
// admin records created without one.
func (u *User) Clearance() ClearanceLevel {
	if u.Admin == nil || u.Admin.ClearanceLevel == "" {
		return ClearanceBasic
	}
	return u.Admin.ClearanceLevel
}
