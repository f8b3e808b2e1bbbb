package models

import "time"

type AdminProfile struct {
	Permissions    []AdminPermission `json:"permissions" bson:"permissions"`
	Departments    []string          `json:"departments" bson:"departments"`
	ClearanceLevel ClearanceLevel    `json:"clearance_level" bson:"clearance_level" default:"basic"`
	LastLoginAt    *time.Time        `json:"last_login_at" bson:"last_login_at"`
	LoginAttempts  int               `json:"login_attempts" bson:"login_attempts"`
}

func NewAdminProfile() *AdminProfile {
	return &AdminProfile{
		Permissions:    []AdminPermission{PermissionRead, PermissionWrite, PermissionDelete},
		Departments:    []string{"general"},
		ClearanceLevel: ClearanceBasic,
	}
}

func (a *AdminProfile) HasPermission(permission AdminPermission) bool {
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
